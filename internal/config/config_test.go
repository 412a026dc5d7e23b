package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Default()
	cfg.TopicARN = "arn:aws:sns:us-west-2:123456789012:alerts"
	return cfg
}

func TestFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:alerts")
	t.Setenv("BEDROCK_MODEL_ID", "amazon.titan-text-lite-v1")
	t.Setenv("MODEL_REQUEST_TIMEOUT", "45s")
	t.Setenv("MODEL_MAX_ATTEMPTS", "5")
	t.Setenv("MODEL_BACKOFF_BASE_DELAY", "250ms")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:alerts", cfg.TopicARN)
	assert.Equal(t, "amazon.titan-text-lite-v1", cfg.ModelID)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.BaseDelay)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("MODEL_REQUEST_TIMEOUT", "not-a-duration")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("topic_arn: arn:aws:sns:us-west-2:123456789012:alerts\nmax_attempts: 4\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "arn:aws:sns:us-west-2:123456789012:alerts", cfg.TopicARN)
	assert.Equal(t, 4, cfg.MaxAttempts)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().ModelID, cfg.ModelID)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid sns", func(c *Config) {}, false},
		{
			"valid webhook",
			func(c *Config) { c.TopicARN = ""; c.WebhookURL = "https://hooks.example.com/alerts" },
			false,
		},
		{"no channel", func(c *Config) { c.TopicARN = "" }, true},
		{
			"both channels",
			func(c *Config) { c.WebhookURL = "https://hooks.example.com/alerts" },
			true,
		},
		{"bad arn", func(c *Config) { c.TopicARN = "not-an-arn" }, true},
		{
			"bad webhook scheme",
			func(c *Config) { c.TopicARN = ""; c.WebhookURL = "ftp://example.com" },
			true,
		},
		{"missing model", func(c *Config) { c.ModelID = "" }, true},
		{"missing region", func(c *Config) { c.Region = "" }, true},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, true},
		{"too many attempts", func(c *Config) { c.MaxAttempts = 50 }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, true},
		{"excessive timeout", func(c *Config) { c.RequestTimeout = time.Hour }, true},
		{"tiny prompt budget", func(c *Config) { c.PromptMaxLen = 10 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := Validate(&cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
