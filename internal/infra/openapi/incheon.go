package openapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/leeks92/flight-mustarddata/internal/observability/metrics"
)

// incheonEnvelope is the hub schedule API's full JSON envelope.
type incheonEnvelope struct {
	Response struct {
		Header envelopeHeader `json:"header"`
		Body   struct {
			TotalCount flexInt               `json:"totalCount"`
			Items      ItemList[IncheonItem] `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// IncheonClient fetches the hub airport's passenger flight schedules.
// Departures and arrivals are separate endpoints behind the same base URL;
// both share the client's transport so the pacing budget covers the
// inter-endpoint delay as well as the page delay.
type IncheonClient struct {
	transport  *Transport
	baseURL    string
	serviceKey string
	pageSize   int
	logger     *slog.Logger
}

// NewIncheonClient creates a client for the hub schedule API.
func NewIncheonClient(transport *Transport, baseURL, serviceKey string, pageSize int, logger *slog.Logger) *IncheonClient {
	return &IncheonClient{
		transport:  transport,
		baseURL:    baseURL,
		serviceKey: serviceKey,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// FetchDepartures pages through the departures endpoint.
//
// On any failure the returned error is a *FetchError and items holds every
// record accumulated before the failing page.
func (c *IncheonClient) FetchDepartures(ctx context.Context) ([]IncheonItem, error) {
	return c.fetchAll(ctx, "getPaxFltSchedDepartures")
}

// FetchArrivals pages through the arrivals endpoint.
func (c *IncheonClient) FetchArrivals(ctx context.Context) ([]IncheonItem, error) {
	return c.fetchAll(ctx, "getPaxFltSchedArrivals")
}

func (c *IncheonClient) fetchAll(ctx context.Context, endpoint string) ([]IncheonItem, error) {
	var (
		items []IncheonItem
		total int
	)

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("type", "json")
		params.Set("lang", "K")
		params.Set("numOfRows", strconv.Itoa(c.pageSize))
		params.Set("pageNo", strconv.Itoa(page))

		body, err := c.transport.Get(ctx, buildURL(c.baseURL+"/"+endpoint, c.serviceKey, params))
		if err != nil {
			return items, err
		}

		pageItems, pageTotal, err := c.decodePage(body)
		if err != nil {
			return items, err
		}

		total = pageTotal
		items = append(items, pageItems...)
		metrics.RecordPageFetched(c.transport.Source(), len(pageItems))

		c.logger.Debug("page fetched",
			slog.String("source", c.transport.Source()),
			slog.String("endpoint", endpoint),
			slog.Int("page", page),
			slog.Int("items", len(pageItems)),
			slog.Int("total", total))

		if paginationDone(len(items), len(pageItems), total) {
			break
		}
	}

	return items, nil
}

// decodePage validates the envelope of one page and returns its items and
// the source-reported total count.
func (c *IncheonClient) decodePage(body []byte) ([]IncheonItem, int, error) {
	source := c.transport.Source()

	// The portal answers with an XML error document even when JSON was
	// requested, so sniff before decoding.
	if LooksLikeXML(body) {
		cls := Classify(body)
		return nil, 0, &FetchError{
			Source:  source,
			Type:    ErrorEnvelope,
			Code:    cls.Code,
			Message: cls.Message,
		}
	}

	var env incheonEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, &FetchError{Source: source, Type: ErrorMalformedBody, Err: err}
	}

	header := env.Response.Header
	if header.ResultCode == "" {
		return nil, 0, &FetchError{
			Source:  source,
			Type:    ErrorMalformedBody,
			Message: "missing result code",
		}
	}
	if header.ResultCode != resultCodeOK {
		return nil, 0, &FetchError{
			Source:  source,
			Type:    ErrorEnvelope,
			Code:    header.ResultCode,
			Message: header.ResultMsg,
		}
	}

	return env.Response.Body.Items, int(env.Response.Body.TotalCount), nil
}
