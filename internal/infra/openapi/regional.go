package openapi

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/leeks92/flight-mustarddata/internal/observability/metrics"
)

// regionalEnvelope is the regional weekly-schedule API's success envelope.
// The same response/header shape doubles as the error envelope, so a decode
// always succeeds and the result code decides.
type regionalEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		TotalCount int `xml:"totalCount"`
		Items      struct {
			Item []RegionalItem `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

// RegionalClient fetches weekly domestic schedules from the regional
// airports API, one origin airport at a time.
type RegionalClient struct {
	transport  *Transport
	baseURL    string
	serviceKey string
	pageSize   int
	logger     *slog.Logger
}

// NewRegionalClient creates a client for the regional weekly-schedule API.
func NewRegionalClient(transport *Transport, baseURL, serviceKey string, pageSize int, logger *slog.Logger) *RegionalClient {
	return &RegionalClient{
		transport:  transport,
		baseURL:    baseURL,
		serviceKey: serviceKey,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// FetchWeekly pages through the weekly schedule for one origin airport.
// On failure items holds everything accumulated before the failing page.
func (c *RegionalClient) FetchWeekly(ctx context.Context, originCode string) ([]RegionalItem, error) {
	var (
		items []RegionalItem
		total int
	)

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("depAirportCd", originCode)
		params.Set("numOfRows", strconv.Itoa(c.pageSize))
		params.Set("pageNo", strconv.Itoa(page))

		body, err := c.transport.Get(ctx, buildURL(c.baseURL, c.serviceKey, params))
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
			slog.String("origin", originCode),
			slog.Int("page", page),
			slog.Int("items", len(pageItems)),
			slog.Int("total", total))

		if paginationDone(len(items), len(pageItems), total) {
			break
		}
	}

	return items, nil
}

func (c *RegionalClient) decodePage(body []byte) ([]RegionalItem, int, error) {
	source := c.transport.Source()

	var env regionalEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		// Some portal failures answer with the newer gen-2 error document
		// instead of this API's own envelope.
		if cls := Classify(body); cls.Kind == KindXMLGen2Error {
			return nil, 0, &FetchError{
				Source:  source,
				Type:    ErrorEnvelope,
				Code:    cls.Code,
				Message: cls.Message,
			}
		}
		return nil, 0, &FetchError{Source: source, Type: ErrorMalformedBody, Err: err}
	}

	if env.Header.ResultCode == "" {
		return nil, 0, &FetchError{
			Source:  source,
			Type:    ErrorMalformedBody,
			Message: "missing result code",
		}
	}
	if env.Header.ResultCode != resultCodeOK {
		return nil, 0, &FetchError{
			Source:  source,
			Type:    ErrorEnvelope,
			Code:    env.Header.ResultCode,
			Message: env.Header.ResultMsg,
		}
	}

	return env.Body.Items.Item, env.Body.TotalCount, nil
}
