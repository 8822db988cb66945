package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/leeks92/flight-mustarddata/internal/config"
	"github.com/leeks92/flight-mustarddata/internal/infra/openapi"
	workerPkg "github.com/leeks92/flight-mustarddata/internal/infra/worker"
	"github.com/leeks92/flight-mustarddata/internal/observability/logging"
	"github.com/leeks92/flight-mustarddata/internal/pipeline"
	"github.com/leeks92/flight-mustarddata/internal/refdata"
	"github.com/leeks92/flight-mustarddata/internal/snapshot"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not an error: production containers configure through real env vars.
		slog.Info("no .env file found, using environment variables")
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("fetch_timeout", workerConfig.FetchTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	// Pipeline configuration is fail-fast only on the primary credential.
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

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := healthServer.Start(egCtx); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		return runMetricsServer(egCtx, logger)
	})

	startCronWorker(logger, svc, writer, workerConfig, workerMetrics, healthServer)

	if err := eg.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// buildPipeline wires the HTTP clients and the collection service from the
// pipeline configuration. The regional and domestic sources are attached only
// when their credentials are present.
func buildPipeline(logger *slog.Logger, cfg *config.PipelineConfig) (*pipeline.Service, *snapshot.Writer, error) {
	resolver, err := refdata.NewResolver()
	if err != nil {
		return nil, nil, fmt.Errorf("load reference data: %w", err)
	}

	httpClient := createHTTPClient(cfg.HTTPTimeout)

	incheonTransport := openapi.NewTransport(httpClient, pipeline.SourceIncheon, cfg.IncheonPageDelay)
	incheonClient := openapi.NewIncheonClient(incheonTransport, cfg.IncheonBaseURL, cfg.IncheonKey, cfg.IncheonPageSize, logger)

	var opts []pipeline.Option
	if cfg.RegionalKey != "" {
		transport := openapi.NewTransport(httpClient, pipeline.SourceRegional, cfg.RegionalDelay)
		client := openapi.NewRegionalClient(transport, cfg.RegionalBaseURL, cfg.RegionalKey, cfg.RegionalPageSize, logger)
		opts = append(opts, pipeline.WithRegional(client))
	} else {
		logger.Info("regional source disabled", slog.String("reason", "REGIONAL_API_KEY not set"))
	}
	if cfg.DomesticKey != "" {
		transport := openapi.NewTransport(httpClient, pipeline.SourceDomestic, cfg.ProbeDelay)
		client := openapi.NewProbeClient(transport, cfg.DomesticBaseURL, cfg.DomesticKey, cfg.ProbePageSize, logger)
		opts = append(opts, pipeline.WithProbe(client, cfg.ProbeWindowDays))
	} else {
		logger.Info("domestic probe source disabled", slog.String("reason", "DOMESTIC_API_KEY not set"))
	}

	svc := pipeline.NewService(logger, resolver, incheonClient, opts...)
	return svc, snapshot.NewWriter(cfg.DataDir, logger), nil
}

// createHTTPClient creates an HTTP client with timeouts and connection pooling.
// TLS 1.2+ is enforced.
func createHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// startCronWorker starts the cron scheduler and registers the collection job.
func startCronWorker(logger *slog.Logger, svc *pipeline.Service, writer *snapshot.Writer, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runFetchJob(logger, svc, writer, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
}

// runFetchJob executes one full collection run with timeout and writes the
// snapshot. A failed run leaves the previous snapshot untouched.
func runFetchJob(logger *slog.Logger, svc *pipeline.Service, writer *snapshot.Writer, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	runLogger, _ := logging.WithRunID(logger)

	startTime := time.Now()
	metrics.RecordRun("started")
	runLogger.Info("collection started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	result, err := svc.Collect(ctx)
	if err != nil {
		runLogger.Error("collection failed", slog.Any("error", err))
		metrics.RecordRun("failure")
		metrics.RecordRunDuration(time.Since(startTime).Seconds())
		return
	}

	if err := writer.Write(result); err != nil {
		runLogger.Error("snapshot write failed", slog.Any("error", err))
		metrics.RecordRun("failure")
		metrics.RecordRunDuration(time.Since(startTime).Seconds())
		return
	}

	metrics.RecordRun("success")
	metrics.RecordRunDuration(time.Since(startTime).Seconds())
	metrics.RecordRoutesEmitted(len(result.DepartureRoutes))
	metrics.RecordLastSuccess()

	runLogger.Info("collection completed",
		slog.Int("airports", len(result.Airports)),
		slog.Int("departure_routes", len(result.DepartureRoutes)),
		slog.Int("arrival_routes", len(result.ArrivalRoutes)),
		slog.String("season", result.Season),
		slog.Duration("duration", result.Stats.Duration),
	)
}
