package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leeks92/flight-mustarddata/internal/domain/entity"
	"github.com/leeks92/flight-mustarddata/internal/infra/openapi"
	"github.com/leeks92/flight-mustarddata/internal/observability/metrics"
	"github.com/leeks92/flight-mustarddata/internal/observability/tracing"
	"github.com/leeks92/flight-mustarddata/internal/refdata"
)

// Source labels used in logs and metrics.
const (
	SourceIncheon  = "incheon"
	SourceRegional = "regional"
	SourceDomestic = "domestic"
)

// Drop reasons used in logs and metrics.
const (
	dropEmptyTime     = "empty_time"
	dropNoCodeMapping = "no_code_mapping"
	dropStale         = "stale"
)

// IncheonFetcher pulls the hub airport's departure and arrival schedules.
type IncheonFetcher interface {
	FetchDepartures(ctx context.Context) ([]openapi.IncheonItem, error)
	FetchArrivals(ctx context.Context) ([]openapi.IncheonItem, error)
}

// RegionalFetcher pulls one origin airport's weekly domestic schedule.
type RegionalFetcher interface {
	FetchWeekly(ctx context.Context, originCode string) ([]openapi.RegionalItem, error)
}

// ProbeFetcher pulls one airport pair's operations for one date.
type ProbeFetcher interface {
	FetchDay(ctx context.Context, depID, arrID, date string) ([]openapi.ProbeItem, error)
}

// SourceStats counts what one source contributed to a run.
type SourceStats struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Dropped  int `json:"dropped"`
	Errors   int `json:"errors"`
}

// Stats summarizes a whole collection run.
type Stats struct {
	Sources  map[string]*SourceStats `json:"sources"`
	Duration time.Duration           `json:"duration"`
}

func (s *Stats) source(name string) *SourceStats {
	st, ok := s.Sources[name]
	if !ok {
		st = &SourceStats{}
		s.Sources[name] = st
	}
	return st
}

// Result is the outcome of one collection run, ready for the snapshot
// writer.
type Result struct {
	Airports        []entity.Airport
	DepartureRoutes []*entity.Route
	ArrivalRoutes   []*entity.Route
	Season          string
	CollectedAt     time.Time
	Stats           *Stats
}

// Service runs the sequential collection across all configured sources.
// The incheon fetcher is mandatory; the regional and probe fetchers may be
// nil, in which case their sources are skipped with a notice. A failing
// source degrades the snapshot, it never aborts the run.
type Service struct {
	logger     *slog.Logger
	resolver   *refdata.Resolver
	normalizer *Normalizer

	incheon  IncheonFetcher
	regional RegionalFetcher
	probe    ProbeFetcher

	probeWindowDays int
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRegional wires the optional regional weekly-schedule source.
func WithRegional(f RegionalFetcher) Option {
	return func(s *Service) { s.regional = f }
}

// WithProbe wires the optional domestic operations probe source with its
// probe window length in days.
func WithProbe(f ProbeFetcher, windowDays int) Option {
	return func(s *Service) {
		s.probe = f
		s.probeWindowDays = windowDays
	}
}

// WithClock overrides the run clock. Tests use it to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the collection service.
func NewService(logger *slog.Logger, resolver *refdata.Resolver, incheon IncheonFetcher, opts ...Option) *Service {
	s := &Service{
		logger:          logger,
		resolver:        resolver,
		normalizer:      NewNormalizer(resolver),
		incheon:         incheon,
		probeWindowDays: 7,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect runs the full sequential collection and returns the aggregated
// result. The only hard failure is context cancellation; source errors are
// logged, counted and absorbed.
func (s *Service) Collect(ctx context.Context) (*Result, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.Collect")
	defer span.End()

	startedAt := s.now()
	today := Today(startedAt)

	agg := NewAggregator(s.resolver.Hub())
	seasons := NewSeasonSelector()
	stats := &Stats{Sources: make(map[string]*SourceStats)}

	s.collectIncheon(ctx, agg, seasons, today, stats)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.regional != nil {
		s.collectRegional(ctx, agg, seasons, today, stats)
	} else {
		s.logger.Info("source skipped", slog.String("source", SourceRegional), slog.String("reason", "not configured"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.probe != nil {
		s.collectProbe(ctx, agg, startedAt, stats)
	} else {
		s.logger.Info("source skipped", slog.String("source", SourceDomestic), slog.String("reason", "not configured"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats.Duration = s.now().Sub(startedAt)

	airports, depRoutes, arrRoutes := agg.Counts()
	span.SetAttributes(
		attribute.Int("airports", airports),
		attribute.Int("departure_routes", depRoutes),
		attribute.Int("arrival_routes", arrRoutes),
	)

	return &Result{
		Airports:        agg.Airports(),
		DepartureRoutes: agg.DepartureRoutes(),
		ArrivalRoutes:   agg.ArrivalRoutes(),
		Season:          seasons.Selected(),
		CollectedAt:     startedAt,
		Stats:           stats,
	}, nil
}

// collectIncheon runs the hub source: departures first, then arrivals, in
// one pacing budget.
func (s *Service) collectIncheon(ctx context.Context, agg *Aggregator, seasons *SeasonSelector, today string, stats *Stats) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.collectIncheon",
		trace.WithAttributes(attribute.String("source", SourceIncheon)))
	defer span.End()

	st := stats.source(SourceIncheon)
	started := time.Now()
	defer func() { metrics.RecordCollectionDuration(SourceIncheon, time.Since(started)) }()

	hub := s.resolver.Hub()

	departures, err := s.incheon.FetchDepartures(ctx)
	s.absorbFetchError(SourceIncheon, "departures", err, st)
	st.Fetched += len(departures)
	for _, item := range departures {
		s.mergeIncheonItem(agg, seasons, st, today, item, hub, true)
	}

	arrivals, err := s.incheon.FetchArrivals(ctx)
	s.absorbFetchError(SourceIncheon, "arrivals", err, st)
	st.Fetched += len(arrivals)
	for _, item := range arrivals {
		s.mergeIncheonItem(agg, seasons, st, today, item, hub, false)
	}

	s.logger.Info("source collected",
		slog.String("source", SourceIncheon),
		slog.Int("fetched", st.Fetched),
		slog.Int("inserted", st.Inserted),
		slog.Int("dropped", st.Dropped))
}

// mergeIncheonItem validates, normalizes and inserts one hub record. The
// counterpart airport identity comes straight off the record; hub traffic is
// international, so its destinations are not restricted to the domestic
// reference table.
func (s *Service) mergeIncheonItem(agg *Aggregator, seasons *SeasonSelector, st *SourceStats, today string, item openapi.IncheonItem, hub entity.Airport, departure bool) {
	if !ValidOn(strings.TrimSpace(item.LastDate), today) {
		s.drop(st, SourceIncheon, dropStale, item.FlightID)
		return
	}

	code := strings.ToUpper(strings.TrimSpace(item.AirportCode))
	if code == "" {
		s.drop(st, SourceIncheon, dropNoCodeMapping, item.FlightID)
		return
	}
	name := strings.TrimSpace(item.Airport)
	if name == "" {
		if canonical, ok := s.resolver.DisplayName(code); ok {
			name = canonical
		} else {
			name = code
		}
	}
	counterpart := entity.Airport{Code: code, Name: name}

	entry := s.normalizer.FromIncheon(item)
	if entry == nil {
		s.drop(st, SourceIncheon, dropEmptyTime, item.FlightID)
		return
	}
	seasons.Observe(entry.Season)

	var inserted bool
	if departure {
		inserted = agg.AddDeparture(hub, counterpart, *entry)
	} else {
		inserted = agg.AddArrival(counterpart, hub, *entry)
	}
	if inserted {
		st.Inserted++
	}
}

// collectRegional walks every domestic origin airport through the weekly
// schedule endpoint. City names are free text and resolve through the
// reference tables; a leg whose both ends resolve is registered
// symmetrically.
func (s *Service) collectRegional(ctx context.Context, agg *Aggregator, seasons *SeasonSelector, today string, stats *Stats) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.collectRegional",
		trace.WithAttributes(attribute.String("source", SourceRegional)))
	defer span.End()

	st := stats.source(SourceRegional)
	started := time.Now()
	defer func() { metrics.RecordCollectionDuration(SourceRegional, time.Since(started)) }()

	for _, origin := range s.resolver.DomesticCodes() {
		if ctx.Err() != nil {
			return
		}

		items, err := s.regional.FetchWeekly(ctx, origin)
		s.absorbFetchError(SourceRegional, origin, err, st)
		st.Fetched += len(items)

		for _, item := range items {
			s.mergeRegionalItem(agg, seasons, st, today, item)
		}
	}

	s.logger.Info("source collected",
		slog.String("source", SourceRegional),
		slog.Int("fetched", st.Fetched),
		slog.Int("inserted", st.Inserted),
		slog.Int("dropped", st.Dropped))
}

func (s *Service) mergeRegionalItem(agg *Aggregator, seasons *SeasonSelector, st *SourceStats, today string, item openapi.RegionalItem) {
	if !ValidOn(strings.TrimSpace(item.EndDt), today) {
		s.drop(st, SourceRegional, dropStale, item.DomFlightNo)
		return
	}

	dep, ok := s.resolveAirport(item.DepCityNm)
	if !ok {
		s.drop(st, SourceRegional, dropNoCodeMapping, item.DomFlightNo)
		return
	}
	arr, ok := s.resolveAirport(item.ArrCityNm)
	if !ok {
		s.drop(st, SourceRegional, dropNoCodeMapping, item.DomFlightNo)
		return
	}

	entry := s.normalizer.FromRegional(item)
	if entry == nil {
		s.drop(st, SourceRegional, dropEmptyTime, item.DomFlightNo)
		return
	}
	seasons.Observe(entry.Season)

	if agg.AddSymmetric(dep, arr, *entry) {
		st.Inserted++
	}
}

// collectProbe runs the two-phase domestic operations probe. Phase one
// probes every domestic pair for the first date and keeps the pairs that
// showed traffic. Phase two walks only those pairs across the rest of the
// probe window, merging weekday evidence per flight before a single
// aggregator insert. The probe stops early once the circuit opens.
func (s *Service) collectProbe(ctx context.Context, agg *Aggregator, startedAt time.Time, stats *Stats) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.collectProbe",
		trace.WithAttributes(attribute.String("source", SourceDomestic)))
	defer span.End()

	st := stats.source(SourceDomestic)
	started := time.Now()
	defer func() { metrics.RecordCollectionDuration(SourceDomestic, time.Since(started)) }()

	type pair struct {
		dep, arr entity.Airport
		depID    string
		arrID    string
	}

	var pairs []pair
	for _, depCode := range s.resolver.DomesticCodes() {
		depID, ok := s.resolver.NumericID(depCode)
		if !ok {
			continue
		}
		depName, _ := s.resolver.DisplayName(depCode)
		for _, arrCode := range s.resolver.DomesticCodes() {
			if arrCode == depCode {
				continue
			}
			arrID, ok := s.resolver.NumericID(arrCode)
			if !ok {
				continue
			}
			arrName, _ := s.resolver.DisplayName(arrCode)
			pairs = append(pairs, pair{
				dep:   entity.Airport{Code: depCode, Name: depName},
				arr:   entity.Airport{Code: arrCode, Name: arrName},
				depID: depID,
				arrID: arrID,
			})
		}
	}

	firstDay := startedAt
	evidence := make(map[int][]entity.FlightEntry, len(pairs))

	// Phase one: discover which pairs carry traffic at all.
	var active []int
	for i, p := range pairs {
		if ctx.Err() != nil {
			return
		}
		items, err := s.probe.FetchDay(ctx, p.depID, p.arrID, Today(firstDay))
		if errors.Is(err, openapi.ErrProbeCircuitOpen) {
			s.logger.Warn("probe stopped early",
				slog.String("source", SourceDomestic),
				slog.String("reason", "circuit open"),
				slog.Int("pairs_probed", i))
			st.Errors++
			break
		}
		s.absorbFetchError(SourceDomestic, p.dep.Code+"-"+p.arr.Code, err, st)
		st.Fetched += len(items)

		if len(items) == 0 {
			continue
		}
		active = append(active, i)
		evidence[i] = s.normalizeProbeItems(st, items, firstDay.Weekday())
	}

	// Phase two: walk the active pairs across the rest of the window.
detail:
	for day := 1; day < s.probeWindowDays; day++ {
		date := firstDay.AddDate(0, 0, day)
		for _, i := range active {
			if ctx.Err() != nil {
				return
			}
			p := pairs[i]
			items, err := s.probe.FetchDay(ctx, p.depID, p.arrID, Today(date))
			if errors.Is(err, openapi.ErrProbeCircuitOpen) {
				s.logger.Warn("probe stopped early",
					slog.String("source", SourceDomestic),
					slog.String("reason", "circuit open"))
				st.Errors++
				break detail
			}
			s.absorbFetchError(SourceDomestic, p.dep.Code+"-"+p.arr.Code, err, st)
			st.Fetched += len(items)
			evidence[i] = append(evidence[i], s.normalizeProbeItems(st, items, date.Weekday())...)
		}
	}

	// The aggregator keeps the first stored entry untouched, so all weekday
	// evidence for a flight must be merged before insertion.
	for _, i := range active {
		p := pairs[i]
		for _, entry := range MergeDayEvidence(evidence[i]) {
			if agg.AddSymmetric(p.dep, p.arr, entry) {
				st.Inserted++
			}
		}
	}

	s.logger.Info("source collected",
		slog.String("source", SourceDomestic),
		slog.Int("active_pairs", len(active)),
		slog.Int("fetched", st.Fetched),
		slog.Int("inserted", st.Inserted),
		slog.Int("dropped", st.Dropped))
}

func (s *Service) normalizeProbeItems(st *SourceStats, items []openapi.ProbeItem, day time.Weekday) []entity.FlightEntry {
	entries := make([]entity.FlightEntry, 0, len(items))
	for _, item := range items {
		entry := s.normalizer.FromProbe(item, day)
		if entry == nil {
			s.drop(st, SourceDomestic, dropEmptyTime, item.VihicleID)
			continue
		}
		entries = append(entries, *entry)
	}
	return entries
}

// resolveAirport turns a free-text identifier into a canonical airport
// identity via the reference tables.
func (s *Service) resolveAirport(ident string) (entity.Airport, bool) {
	code, ok := s.resolver.ResolveCode(ident)
	if !ok {
		return entity.Airport{}, false
	}
	name, _ := s.resolver.DisplayName(code)
	return entity.Airport{Code: code, Name: name}, true
}

// absorbFetchError logs and counts an endpoint failure. The accumulated
// partial records were already handed back by the client, so the run simply
// continues.
func (s *Service) absorbFetchError(source, endpoint string, err error, st *SourceStats) {
	if err == nil {
		return
	}
	st.Errors++

	errorType := string(openapi.ErrorTransport)
	var fetchErr *openapi.FetchError
	if errors.As(err, &fetchErr) {
		errorType = string(fetchErr.Type)
	}
	metrics.RecordFetchError(source, errorType)

	s.logger.Warn("endpoint aborted",
		slog.String("source", source),
		slog.String("endpoint", endpoint),
		slog.String("error_type", errorType),
		slog.String("error", err.Error()))
}

func (s *Service) drop(st *SourceStats, source, reason, flightID string) {
	st.Dropped++
	metrics.RecordRecordDropped(reason)
	s.logger.Debug("record dropped",
		slog.String("source", source),
		slog.String("reason", reason),
		slog.String("flight_id", flightID))
}
