package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GIN_MODE", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
		"POLL_INTERVAL_MS", "JOB_EXPIRE_MINUTES", "REVEAL_OUTPUT",
		"PDF_VALIDATION_MODE", "LOCK_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 10*time.Minute, cfg.JobTTL())
	assert.True(t, cfg.RevealOutput)
	assert.Equal(t, "relaxed", cfg.PDFValidationMode)
	assert.NotEmpty(t, cfg.LockPath)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_INTERVAL_MS", "20")
	t.Setenv("REVEAL_OUTPUT", "false")
	t.Setenv("PDF_VALIDATION_MODE", "STRICT")
	t.Setenv("JOB_EXPIRE_MINUTES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.PollInterval())
	assert.False(t, cfg.RevealOutput)
	assert.Equal(t, "strict", cfg.PDFValidationMode)
	assert.Equal(t, 10, cfg.JobExpireMinutes)
}

func TestValidate(t *testing.T) {
	valid := Config{PollIntervalMS: 50, PDFValidationMode: "relaxed", GinMode: "debug"}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"zero poll interval": func(c *Config) { c.PollIntervalMS = 0 },
		"unknown mode":       func(c *Config) { c.PDFValidationMode = "lenient" },
		"release without cors": func(c *Config) {
			c.GinMode = "release"
			c.CORSAllowedOrigins = ""
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
