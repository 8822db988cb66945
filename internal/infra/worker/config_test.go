package worker

import (
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CronSchedule != "30 5 * * *" {
		t.Errorf("CronSchedule = %q, want %q", cfg.CronSchedule, "30 5 * * *")
	}
	if cfg.Timezone != "Asia/Seoul" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "Asia/Seoul")
	}
	if cfg.FetchTimeout != 45*time.Minute {
		t.Errorf("FetchTimeout = %v, want %v", cfg.FetchTimeout, 45*time.Minute)
	}
	if cfg.HealthPort != 9091 {
		t.Errorf("HealthPort = %d, want %d", cfg.HealthPort, 9091)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WorkerConfig)
		wantErr bool
	}{
		{"valid defaults", func(c *WorkerConfig) {}, false},
		{"bad cron expression", func(c *WorkerConfig) { c.CronSchedule = "not a schedule" }, true},
		{"unknown timezone", func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" }, true},
		{"zero timeout", func(c *WorkerConfig) { c.FetchTimeout = 0 }, true},
		{"privileged port", func(c *WorkerConfig) { c.HealthPort = 80 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "0 */6 * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("FETCH_TIMEOUT", "1h")
	t.Setenv("WORKER_HEALTH_PORT", "8081")

	cfg, err := LoadConfigFromEnv(discardLogger(), testMetrics)
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}

	if cfg.CronSchedule != "0 */6 * * *" {
		t.Errorf("CronSchedule = %q, want %q", cfg.CronSchedule, "0 */6 * * *")
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "UTC")
	}
	if cfg.FetchTimeout != time.Hour {
		t.Errorf("FetchTimeout = %v, want %v", cfg.FetchTimeout, time.Hour)
	}
	if cfg.HealthPort != 8081 {
		t.Errorf("HealthPort = %d, want %d", cfg.HealthPort, 8081)
	}
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "every tuesday")
	t.Setenv("WORKER_TIMEZONE", "Nowhere/Special")
	t.Setenv("FETCH_TIMEOUT", "10s")
	t.Setenv("WORKER_HEALTH_PORT", "70000")

	cfg, err := LoadConfigFromEnv(discardLogger(), testMetrics)
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}

	want := DefaultConfig()
	if cfg.CronSchedule != want.CronSchedule {
		t.Errorf("CronSchedule = %q, want default %q", cfg.CronSchedule, want.CronSchedule)
	}
	if cfg.Timezone != want.Timezone {
		t.Errorf("Timezone = %q, want default %q", cfg.Timezone, want.Timezone)
	}
	if cfg.FetchTimeout != want.FetchTimeout {
		t.Errorf("FetchTimeout = %v, want default %v", cfg.FetchTimeout, want.FetchTimeout)
	}
	if cfg.HealthPort != want.HealthPort {
		t.Errorf("HealthPort = %d, want default %d", cfg.HealthPort, want.HealthPort)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		t.Errorf("loaded config failed validation: %v", validateErr)
	}
}
