// Package config loads the pipeline's runtime configuration from the
// environment. Tunables are fail-open: an invalid value falls back to its
// default with a warning. Only the primary API credential is fail-fast,
// because without it the run cannot produce a snapshot at all.
package config

import (
	"fmt"
	"log/slog"
	"time"

	pkgconfig "github.com/leeks92/flight-mustarddata/internal/pkg/config"
)

// Default upstream endpoints. These are stable public base URLs; overriding
// them is mainly for tests and local mock servers.
const (
	defaultIncheonBaseURL  = "https://apis.data.go.kr/B551177/PaxFltSched"
	defaultRegionalBaseURL = "https://apis.data.go.kr/B551176/dmstcWeeklySchedule/getDmstcWeeklySchedule"
	defaultDomesticBaseURL = "https://apis.data.go.kr/1613000/DmstcFlightNvgInfoService/getFlightOpratInfoList"
)

// PipelineConfig holds everything one collection run needs: credentials,
// endpoints, page sizes, the mandated inter-request delays and the output
// directory.
type PipelineConfig struct {
	// IncheonKey is the primary credential. The run refuses to start
	// without it.
	IncheonKey string

	// RegionalKey and DomesticKey are optional; an empty value skips the
	// source with a notice. The portal issues one key per account, so the
	// same value as IncheonKey is common.
	RegionalKey string
	DomesticKey string

	IncheonBaseURL  string
	RegionalBaseURL string
	DomesticBaseURL string

	IncheonPageSize  int
	RegionalPageSize int
	ProbePageSize    int

	// IncheonPageDelay also spaces the departures and arrivals endpoint
	// calls, since both share one pacing budget.
	IncheonPageDelay time.Duration
	RegionalDelay    time.Duration
	ProbeDelay       time.Duration

	// ProbeWindowDays is the length of the operations probe window,
	// including the discovery date.
	ProbeWindowDays int

	// HTTPTimeout bounds every single upstream request.
	HTTPTimeout time.Duration

	// DataDir is where the snapshot artifacts are written.
	DataDir string
}

var configMetrics = pkgconfig.NewConfigMetrics("pipeline")

// LoadPipelineConfig reads the configuration from the environment. The only
// possible error is a missing primary credential; every tunable falls back
// to its default on invalid input.
//
// Environment variables:
//   - FLIGHT_API_KEY: primary credential, pre-encoded (required)
//   - REGIONAL_API_KEY, DOMESTIC_API_KEY: optional source credentials
//   - FLIGHT_INCHEON_URL, FLIGHT_REGIONAL_URL, FLIGHT_DOMESTIC_URL
//   - FLIGHT_INCHEON_PAGE_SIZE (default 100, 1-1000)
//   - FLIGHT_REGIONAL_PAGE_SIZE, FLIGHT_PROBE_PAGE_SIZE (default 50, 1-1000)
//   - FLIGHT_INCHEON_PAGE_DELAY (default 2s), FLIGHT_REGIONAL_DELAY
//     (default 500ms), FLIGHT_PROBE_DELAY (default 250ms)
//   - FLIGHT_PROBE_WINDOW_DAYS (default 7, 1-14)
//   - FLIGHT_HTTP_TIMEOUT (default 15s)
//   - DATA_DIR (default "data")
func LoadPipelineConfig(logger *slog.Logger) (*PipelineConfig, error) {
	cfg := &PipelineConfig{
		IncheonKey:  pkgconfig.LoadEnvString("FLIGHT_API_KEY", ""),
		RegionalKey: pkgconfig.LoadEnvString("REGIONAL_API_KEY", ""),
		DomesticKey: pkgconfig.LoadEnvString("DOMESTIC_API_KEY", ""),

		IncheonBaseURL:  pkgconfig.LoadEnvString("FLIGHT_INCHEON_URL", defaultIncheonBaseURL),
		RegionalBaseURL: pkgconfig.LoadEnvString("FLIGHT_REGIONAL_URL", defaultRegionalBaseURL),
		DomesticBaseURL: pkgconfig.LoadEnvString("FLIGHT_DOMESTIC_URL", defaultDomesticBaseURL),

		DataDir: pkgconfig.LoadEnvString("DATA_DIR", "data"),
	}

	if cfg.IncheonKey == "" {
		return nil, fmt.Errorf("FLIGHT_API_KEY is not set: the primary schedule source cannot be queried")
	}

	fallbackApplied := false
	loadInt := func(key string, target *int, def, min, max int) {
		result := pkgconfig.LoadEnvInt(key, def, func(v int) error {
			return pkgconfig.ValidateIntRange(v, min, max)
		})
		*target = result.Value.(int)
		fallbackApplied = warnFallbacks(logger, key, result) || fallbackApplied
	}
	loadDuration := func(key string, target *time.Duration, def, min, max time.Duration) {
		result := pkgconfig.LoadEnvDuration(key, def, func(d time.Duration) error {
			return pkgconfig.ValidateDuration(d, min, max)
		})
		*target = result.Value.(time.Duration)
		fallbackApplied = warnFallbacks(logger, key, result) || fallbackApplied
	}

	loadInt("FLIGHT_INCHEON_PAGE_SIZE", &cfg.IncheonPageSize, 100, 1, 1000)
	loadInt("FLIGHT_REGIONAL_PAGE_SIZE", &cfg.RegionalPageSize, 50, 1, 1000)
	loadInt("FLIGHT_PROBE_PAGE_SIZE", &cfg.ProbePageSize, 50, 1, 1000)
	loadInt("FLIGHT_PROBE_WINDOW_DAYS", &cfg.ProbeWindowDays, 7, 1, 14)

	loadDuration("FLIGHT_INCHEON_PAGE_DELAY", &cfg.IncheonPageDelay, 2*time.Second, 100*time.Millisecond, time.Minute)
	loadDuration("FLIGHT_REGIONAL_DELAY", &cfg.RegionalDelay, 500*time.Millisecond, 50*time.Millisecond, time.Minute)
	loadDuration("FLIGHT_PROBE_DELAY", &cfg.ProbeDelay, 250*time.Millisecond, 50*time.Millisecond, time.Minute)
	loadDuration("FLIGHT_HTTP_TIMEOUT", &cfg.HTTPTimeout, 15*time.Second, time.Second, 5*time.Minute)

	configMetrics.SetFallbackActive("", fallbackApplied)
	configMetrics.RecordLoadTimestamp()

	return cfg, nil
}

func warnFallbacks(logger *slog.Logger, key string, result pkgconfig.ConfigLoadResult) bool {
	if !result.FallbackApplied {
		return false
	}
	configMetrics.RecordValidationError(key)
	configMetrics.RecordFallback(key, "default")
	for _, warning := range result.Warnings {
		logger.Warn("configuration fallback applied",
			slog.String("env_key", key),
			slog.String("warning", warning))
	}
	return true
}
