package config_test

import (
	"testing"
	"time"

	"anoa.com/vxrank/internal/config"
)

func TestLoad_ParsesDurations(t *testing.T) {
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("RATE_LIMIT_AI", "10s")
	t.Setenv("PENDING_VERIFICATION_TTL", "15m")
	t.Setenv("CATALOG_REINDEX_SCHEDULE", "0 4 * * *")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTTTL != 24*time.Hour || cfg.RateLimitAI != 10*time.Second || cfg.PendingVerificationTTL != 15*time.Minute {
		t.Errorf("unexpected durations: %+v", cfg)
	}
	if cfg.Location != time.UTC {
		t.Errorf("expected UTC location, got %v", cfg.Location)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"JWT_TTL", "forever"},
		{"RATE_LIMIT_AI", "ten"},
		{"PENDING_VERIFICATION_TTL", "-"},
		{"TIMEZONE", "Mars/Olympus_Mons"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("JWT_TTL", "24h")
			t.Setenv("RATE_LIMIT_AI", "10s")
			t.Setenv("PENDING_VERIFICATION_TTL", "15m")
			t.Setenv("TIMEZONE", "UTC")
			t.Setenv(tt.key, tt.value)

			if _, err := config.Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
