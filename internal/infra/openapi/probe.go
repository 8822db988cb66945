package openapi

import (
	"context"
	"encoding/xml"
	"errors"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/leeks92/flight-mustarddata/internal/observability/metrics"
	"github.com/leeks92/flight-mustarddata/internal/resilience/circuitbreaker"
)

// ErrProbeCircuitOpen is returned once the probe breaker has tripped. The
// caller stops probing remaining pairs and keeps what was collected.
var ErrProbeCircuitOpen = errors.New("probe circuit open")

// probeEnvelope is the domestic operations API's success envelope. The
// shape matches generation 1 even though the API reports errors in the
// generation 2 document; both are checked on decode failure.
type probeEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		TotalCount int `xml:"totalCount"`
		Items      struct {
			Item []ProbeItem `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

// ProbeClient fetches per-date, per-airport-pair domestic operations.
// A probe run fans out over many small requests, so calls go through a
// circuit breaker: once the upstream fails consistently the remaining pairs
// are skipped instead of burning the rest of the pacing budget on them.
type ProbeClient struct {
	transport  *Transport
	breaker    *circuitbreaker.CircuitBreaker
	baseURL    string
	serviceKey string
	pageSize   int
	logger     *slog.Logger
}

// NewProbeClient creates a client for the domestic operations API.
func NewProbeClient(transport *Transport, baseURL, serviceKey string, pageSize int, logger *slog.Logger) *ProbeClient {
	return &ProbeClient{
		transport:  transport,
		breaker:    circuitbreaker.New(circuitbreaker.ProbeConfig(transport.Source())),
		baseURL:    baseURL,
		serviceKey: serviceKey,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// FetchDay pages through one airport pair's operations for one date.
// Airport identifiers are the upstream's own IDs (NAARKxx style), date is
// YYYYMMDD. Returns ErrProbeCircuitOpen once the breaker has tripped.
func (c *ProbeClient) FetchDay(ctx context.Context, depID, arrID, date string) ([]ProbeItem, error) {
	var items []ProbeItem

	result, err := c.breaker.Execute(func() (interface{}, error) {
		fetched, fetchErr := c.fetchDay(ctx, depID, arrID, date)
		// Hand partial pages to the caller even when the breaker records
		// the call as a failure.
		items = fetched
		return fetched, fetchErr
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrProbeCircuitOpen
		}
		return items, err
	}

	fetched, _ := result.([]ProbeItem)
	return fetched, nil
}

func (c *ProbeClient) fetchDay(ctx context.Context, depID, arrID, date string) ([]ProbeItem, error) {
	var (
		items []ProbeItem
		total int
	)

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("depAirportId", depID)
		params.Set("arrAirportId", arrID)
		params.Set("depPlandTime", date)
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

		c.logger.Debug("pair probed",
			slog.String("source", c.transport.Source()),
			slog.String("dep", depID),
			slog.String("arr", arrID),
			slog.String("date", date),
			slog.Int("page", page),
			slog.Int("items", len(pageItems)))

		if paginationDone(len(items), len(pageItems), total) {
			break
		}
	}

	return items, nil
}

func (c *ProbeClient) decodePage(body []byte) ([]ProbeItem, int, error) {
	source := c.transport.Source()

	var env probeEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
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
