// Package worker holds the scheduled-run infrastructure: configuration,
// metrics and the health endpoints of the long-running fetch worker.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leeks92/flight-mustarddata/internal/pkg/config"
)

// WorkerConfig controls the cron scheduling of collection runs. All fields
// are fail-open: invalid environment values fall back to defaults with a
// warning, so a typo never keeps the worker from starting.
type WorkerConfig struct {
	// CronSchedule is the five-field cron expression for collection runs.
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in. The
	// upstream sources publish Korean schedules, so runs are anchored to
	// Korean local time by default.
	Timezone string

	// FetchTimeout bounds one whole collection run, covering every page of
	// every source including the mandated inter-request delays.
	FetchTimeout time.Duration

	// HealthPort is the port of the liveness/readiness HTTP server.
	HealthPort int
}

// DefaultConfig returns the production defaults: one run per day at 05:30
// KST, finished well before the morning traffic, with a generous timeout
// sized for the sequential probe loop.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "30 5 * * *",
		Timezone:     "Asia/Seoul",
		FetchTimeout: 45 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks every field and aggregates all failures.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.FetchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("fetch timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration with the fail-open
// strategy: each invalid value is replaced by its default, logged and
// counted, and the returned configuration is always valid. The error return
// exists for signature symmetry and is always nil.
//
// Environment variables:
//   - CRON_SCHEDULE (default "30 5 * * *")
//   - WORKER_TIMEZONE (default "Asia/Seoul")
//   - FETCH_TIMEOUT (default 45m, range 5m-4h)
//   - WORKER_HEALTH_PORT (default 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	apply := func(field string, result config.ConfigLoadResult) config.ConfigLoadResult {
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
		return result
	}

	cfg.CronSchedule = apply("cron_schedule",
		config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)).Value.(string)

	cfg.Timezone = apply("timezone",
		config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)).Value.(string)

	cfg.FetchTimeout = apply("fetch_timeout",
		config.LoadEnvDuration("FETCH_TIMEOUT", cfg.FetchTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, 5*time.Minute, 4*time.Hour)
		})).Value.(time.Duration)

	cfg.HealthPort = apply("health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		})).Value.(int)

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
