// Package snapshot finalizes a collection result and persists it as the
// four JSON artifacts the site consumes. The artifacts are the pipeline's
// only externally visible output and are fully replaced on every run.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leeks92/flight-mustarddata/internal/domain/entity"
	"github.com/leeks92/flight-mustarddata/internal/observability/metrics"
	"github.com/leeks92/flight-mustarddata/internal/pipeline"
)

// Artifact file names under the data directory.
const (
	AirportsFile        = "airports.json"
	DepartureRoutesFile = "departure-routes.json"
	ArrivalRoutesFile   = "arrival-routes.json"
	MetadataFile        = "metadata.json"
)

// Writer persists collection results into a data directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir. The directory is created on the
// first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Write finalizes the result and writes all four artifacts. Each file is
// written to a temp file first and moved into place, so a crash mid-run
// never leaves a half-written artifact behind.
func (w *Writer) Write(result *pipeline.Result) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		metrics.RecordSnapshotWrite(false)
		return fmt.Errorf("create data dir: %w", err)
	}

	airports := sortAirports(result.Airports)
	departures := finalizeRoutes(result.DepartureRoutes)
	arrivals := finalizeRoutes(result.ArrivalRoutes)

	meta := entity.Metadata{
		LastUpdated:         result.CollectedAt.UTC(),
		Season:              result.Season,
		AirportCount:        len(airports),
		DepartureRouteCount: len(departures),
		ArrivalRouteCount:   len(arrivals),
	}

	files := []struct {
		name string
		data any
	}{
		{AirportsFile, airports},
		{DepartureRoutesFile, departures},
		{ArrivalRoutesFile, arrivals},
		{MetadataFile, meta},
	}
	for _, f := range files {
		if err := w.writeFile(f.name, f.data); err != nil {
			metrics.RecordSnapshotWrite(false)
			return err
		}
	}

	metrics.RecordSnapshot(len(airports), len(departures), len(arrivals))
	metrics.RecordSnapshotWrite(true)

	w.logger.Info("snapshot written",
		slog.String("dir", w.dir),
		slog.Int("airports", len(airports)),
		slog.Int("departure_routes", len(departures)),
		slog.Int("arrival_routes", len(arrivals)),
		slog.String("season", meta.Season),
		slog.Time("last_updated", meta.LastUpdated))
	return nil
}

func (w *Writer) writeFile(name string, data any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	encoded = append(encoded, '\n')

	target := filepath.Join(w.dir, name)
	tmp := target + fmt.Sprintf(".tmp.%d", time.Now().UnixNano())
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// sortAirports orders the airport list by display name with Korean
// collation, so the emitted list reads naturally in the site's language.
func sortAirports(airports []entity.Airport) []entity.Airport {
	out := make([]entity.Airport, len(airports))
	copy(out, airports)

	c := collate.New(language.Korean)
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := c.CompareString(out[i].Name, out[j].Name); cmp != 0 {
			return cmp < 0
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// finalizeRoutes applies the artifact ordering: within each route, flights
// ascend by schedule time (lexicographic is correct for fixed HH:mm), and
// routes descend by flight count. Both sorts are stable so repeated runs
// over the same data emit identical files.
func finalizeRoutes(routes []*entity.Route) []entity.Route {
	out := make([]entity.Route, 0, len(routes))
	for _, r := range routes {
		route := *r
		route.Flights = make([]entity.FlightEntry, len(r.Flights))
		copy(route.Flights, r.Flights)
		sort.SliceStable(route.Flights, func(i, j int) bool {
			if route.Flights[i].ScheduleTime != route.Flights[j].ScheduleTime {
				return route.Flights[i].ScheduleTime < route.Flights[j].ScheduleTime
			}
			return route.Flights[i].FlightID < route.Flights[j].FlightID
		})
		out = append(out, route)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Flights) != len(out[j].Flights) {
			return len(out[i].Flights) > len(out[j].Flights)
		}
		return out[i].Key().String() < out[j].Key().String()
	})
	return out
}
