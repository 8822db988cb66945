// Command fetch performs one collection run and writes the snapshot.
// It is the one-shot counterpart of the cron worker, meant for manual runs
// and CI-driven refreshes.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/leeks92/flight-mustarddata/internal/config"
	"github.com/leeks92/flight-mustarddata/internal/domain/entity"
	"github.com/leeks92/flight-mustarddata/internal/observability/logging"
	"github.com/leeks92/flight-mustarddata/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pipelineConfig, err := config.LoadPipelineConfig(logger)
	if err != nil {
		logger.Error("failed to load pipeline configuration", slog.Any("error", err))
		os.Exit(1)
	}

	svc, writer, err := buildPipeline(logger, pipelineConfig)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	runLogger, _ := logging.WithRunID(logger)
	runLogger.Info("collection started")

	result, err := svc.Collect(ctx)
	if err != nil {
		runLogger.Error("collection failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := writer.Write(result); err != nil {
		runLogger.Error("snapshot write failed", slog.Any("error", err))
		os.Exit(1)
	}

	logRunSummary(runLogger, result)
}

// logRunSummary logs per-source statistics and the busiest departure routes
// of the finished run.
func logRunSummary(logger *slog.Logger, result *pipeline.Result) {
	for name, stats := range result.Stats.Sources {
		logger.Info("source summary",
			slog.String("source", name),
			slog.Int("fetched", stats.Fetched),
			slog.Int("inserted", stats.Inserted),
			slog.Int("dropped", stats.Dropped),
			slog.Int("errors", stats.Errors))
	}

	for _, route := range busiestRoutes(result.DepartureRoutes, 5) {
		logger.Info("top route",
			slog.String("route", route.Key().String()),
			slog.Int("flights", len(route.Flights)))
	}

	logger.Info("collection completed",
		slog.Int("airports", len(result.Airports)),
		slog.Int("departure_routes", len(result.DepartureRoutes)),
		slog.Int("arrival_routes", len(result.ArrivalRoutes)),
		slog.Int("departure_flights", totalFlights(result.DepartureRoutes)),
		slog.Int("arrival_flights", totalFlights(result.ArrivalRoutes)),
		slog.String("season", result.Season),
		slog.Duration("duration", result.Stats.Duration),
	)
}

func totalFlights(routes []*entity.Route) int {
	total := 0
	for _, route := range routes {
		total += len(route.Flights)
	}
	return total
}

// busiestRoutes returns up to n routes ordered by descending flight count.
// The input slice is left untouched.
func busiestRoutes(routes []*entity.Route, n int) []*entity.Route {
	sorted := make([]*entity.Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Flights) != len(sorted[j].Flights) {
			return len(sorted[i].Flights) > len(sorted[j].Flights)
		}
		return sorted[i].Key().String() < sorted[j].Key().String()
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
