package pipeline_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeks92/flight-mustarddata/internal/domain/entity"
	"github.com/leeks92/flight-mustarddata/internal/infra/openapi"
	"github.com/leeks92/flight-mustarddata/internal/pipeline"
	"github.com/leeks92/flight-mustarddata/internal/refdata"
)

// fixedNow pins the run clock to Monday 2026-08-31.
var fixedNow = time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeIncheon struct {
	departures []openapi.IncheonItem
	arrivals   []openapi.IncheonItem
	depErr     error
	arrErr     error
}

func (f *fakeIncheon) FetchDepartures(ctx context.Context) ([]openapi.IncheonItem, error) {
	return f.departures, f.depErr
}

func (f *fakeIncheon) FetchArrivals(ctx context.Context) ([]openapi.IncheonItem, error) {
	return f.arrivals, f.arrErr
}

type fakeRegional struct {
	byOrigin map[string][]openapi.RegionalItem
}

func (f *fakeRegional) FetchWeekly(ctx context.Context, originCode string) ([]openapi.RegionalItem, error) {
	return f.byOrigin[originCode], nil
}

type probeCall struct {
	depID, arrID, date string
}

type fakeProbe struct {
	calls  []probeCall
	byPair map[string][]openapi.ProbeItem
	err    error
}

func (f *fakeProbe) FetchDay(ctx context.Context, depID, arrID, date string) ([]openapi.ProbeItem, error) {
	f.calls = append(f.calls, probeCall{depID, arrID, date})
	if f.err != nil {
		return nil, f.err
	}
	return f.byPair[depID+"-"+arrID], nil
}

func newService(t *testing.T, incheon pipeline.IncheonFetcher, opts ...pipeline.Option) *pipeline.Service {
	t.Helper()
	resolver, err := refdata.NewResolver()
	require.NoError(t, err)
	opts = append(opts, pipeline.WithClock(clock))
	return pipeline.NewService(slog.New(slog.DiscardHandler), resolver, incheon, opts...)
}

func TestService_EndToEnd_ValidityFilter(t *testing.T) {
	// Two fetched records: one still valid, one expired before "today".
	incheon := &fakeIncheon{
		departures: []openapi.IncheonItem{
			{
				Airline:     "대한항공",
				Airport:     "나리타",
				AirportCode: "NRT",
				FlightID:    "KE701",
				St:          "0900",
				LastDate:    "20261024",
				Season:      "S26",
				Monday:      "Y",
			},
			{
				Airline:     "아시아나항공",
				Airport:     "간사이",
				AirportCode: "KIX",
				FlightID:    "OZ112",
				St:          "1010",
				LastDate:    "20260801",
				Season:      "S25",
			},
		},
	}

	svc := newService(t, incheon)
	result, err := svc.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, result.DepartureRoutes, 1)
	route := result.DepartureRoutes[0]
	assert.Equal(t, entity.HubCode, route.DepCode)
	assert.Equal(t, "NRT", route.ArrCode)
	require.Len(t, route.Flights, 1)
	assert.Equal(t, "KE701", route.Flights[0].FlightID)

	// The stale record never reached the aggregator, and its season label
	// was not observed.
	assert.Equal(t, "S26", result.Season)
	assert.Empty(t, result.ArrivalRoutes)

	st := result.Stats.Sources[pipeline.SourceIncheon]
	require.NotNil(t, st)
	assert.Equal(t, 2, st.Fetched)
	assert.Equal(t, 1, st.Inserted)
	assert.Equal(t, 1, st.Dropped)
}

func TestService_ArrivalDirection(t *testing.T) {
	incheon := &fakeIncheon{
		arrivals: []openapi.IncheonItem{
			{
				Airline:     "대한항공",
				Airport:     "나리타",
				AirportCode: "NRT",
				FlightID:    "KE702",
				St:          "1340",
			},
		},
	}

	svc := newService(t, incheon)
	result, err := svc.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, result.ArrivalRoutes, 1)
	route := result.ArrivalRoutes[0]
	assert.Equal(t, "NRT", route.DepCode)
	assert.Equal(t, entity.HubCode, route.ArrCode)
	assert.Empty(t, result.DepartureRoutes)
}

func TestService_EndpointFailureDoesNotAbortRun(t *testing.T) {
	incheon := &fakeIncheon{
		departures: []openapi.IncheonItem{
			{Airline: "대한항공", Airport: "나리타", AirportCode: "NRT", FlightID: "KE701", St: "0900"},
		},
		arrErr: &openapi.FetchError{Source: pipeline.SourceIncheon, Type: openapi.ErrorEnvelope, Code: "22"},
	}

	svc := newService(t, incheon)
	result, err := svc.Collect(context.Background())
	require.NoError(t, err)

	// Departures survive the arrivals failure.
	assert.Len(t, result.DepartureRoutes, 1)
	assert.Equal(t, 1, result.Stats.Sources[pipeline.SourceIncheon].Errors)
}

func TestService_RegionalSymmetricRegistration(t *testing.T) {
	regional := &fakeRegional{byOrigin: map[string][]openapi.RegionalItem{
		"GMP": {
			{
				DomFlightNo: "7C121",
				DepCityNm:   "서울/김포",
				ArrCityNm:   "제주",
				DepTime:     "0815",
				EndDt:       "20261231",
				Monday:      "Y",
			},
			{
				DomFlightNo: "XX999",
				DepCityNm:   "서울/김포",
				ArrCityNm:   "화성", // no mapping, dropped
				DepTime:     "0900",
			},
		},
	}}

	svc := newService(t, &fakeIncheon{}, pipeline.WithRegional(regional))
	result, err := svc.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, result.DepartureRoutes, 1)
	require.Len(t, result.ArrivalRoutes, 1)
	assert.Equal(t, "GMP", result.DepartureRoutes[0].DepCode)
	assert.Equal(t, "CJU", result.DepartureRoutes[0].ArrCode)
	assert.Equal(t, "김포", result.DepartureRoutes[0].DepName)

	st := result.Stats.Sources[pipeline.SourceRegional]
	assert.Equal(t, 2, st.Fetched)
	assert.Equal(t, 1, st.Inserted)
	assert.Equal(t, 1, st.Dropped)
}

func TestService_ProbeTwoPhase(t *testing.T) {
	// Only GMP→CJU shows traffic; every other pair is empty on discovery.
	probe := &fakeProbe{byPair: map[string][]openapi.ProbeItem{
		"NAARKSS-NAARKPC": {
			{VihicleID: "KE1231", DepPlandTime: "202608310900", AirlineNm: ""},
		},
	}}

	svc := newService(t, &fakeIncheon{}, pipeline.WithProbe(probe, 3))
	result, err := svc.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, result.DepartureRoutes, 1)
	route := result.DepartureRoutes[0]
	assert.Equal(t, "GMP", route.DepCode)
	assert.Equal(t, "CJU", route.ArrCode)
	require.Len(t, route.Flights, 1)

	flight := route.Flights[0]
	assert.Equal(t, "KE1231", flight.FlightID)
	assert.Equal(t, "09:00", flight.ScheduleTime)
	// Airline backfilled from the flight-number prefix.
	assert.Equal(t, "대한항공", flight.Airline)
	// Observed Mon (day 1), Tue and Wed across the three-day window, with
	// the evidence merged into one stored entry.
	assert.Equal(t, entity.DaysOfWeek{Mon: true, Tue: true, Wed: true}, flight.Days)

	// The leg is registered in both views.
	require.Len(t, result.ArrivalRoutes, 1)

	// Phase two only revisits the active pair: two extra days, one pair.
	var detailCalls int
	for _, call := range probe.calls {
		if call.date != "20260831" {
			detailCalls++
			assert.Equal(t, "NAARKSS", call.depID)
			assert.Equal(t, "NAARKPC", call.arrID)
		}
	}
	assert.Equal(t, 2, detailCalls)
}

func TestService_ProbeCircuitOpenStopsSource(t *testing.T) {
	probe := &fakeProbe{err: openapi.ErrProbeCircuitOpen}

	svc := newService(t, &fakeIncheon{}, pipeline.WithProbe(probe, 3))
	result, err := svc.Collect(context.Background())
	require.NoError(t, err)

	// The very first discovery call hits the open circuit and the source
	// gives up without probing the remaining pairs.
	assert.Len(t, probe.calls, 1)
	assert.Empty(t, result.DepartureRoutes)
}

func TestService_HubAlwaysPresent(t *testing.T) {
	svc := newService(t, &fakeIncheon{})
	result, err := svc.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Airports, 1)
	assert.Equal(t, entity.HubCode, result.Airports[0].Code)
	assert.Equal(t, entity.HubName, result.Airports[0].Name)
	assert.Equal(t, fixedNow, result.CollectedAt)
}
