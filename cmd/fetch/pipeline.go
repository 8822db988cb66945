package main

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/leeks92/flight-mustarddata/internal/config"
	"github.com/leeks92/flight-mustarddata/internal/infra/openapi"
	"github.com/leeks92/flight-mustarddata/internal/pipeline"
	"github.com/leeks92/flight-mustarddata/internal/refdata"
	"github.com/leeks92/flight-mustarddata/internal/snapshot"
)

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
