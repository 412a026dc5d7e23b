package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks if the configuration has valid values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration object is nil")
	}

	if cfg.TopicARN == "" && cfg.WebhookURL == "" {
		return fmt.Errorf("either topic_arn or webhook_url must be set")
	}
	if cfg.TopicARN != "" && cfg.WebhookURL != "" {
		return fmt.Errorf("topic_arn and webhook_url are mutually exclusive")
	}
	if cfg.TopicARN != "" && !strings.HasPrefix(cfg.TopicARN, "arn:") {
		return fmt.Errorf("topic_arn is not an ARN: %q", cfg.TopicARN)
	}
	if cfg.WebhookURL != "" {
		if err := validateURL(cfg.WebhookURL); err != nil {
			return err
		}
	}

	if cfg.ModelID == "" {
		return fmt.Errorf("model_id must be set")
	}
	if cfg.Region == "" {
		return fmt.Errorf("region must be set")
	}

	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 10 {
		return fmt.Errorf("max_attempts must be between 1 and 10: %d", cfg.MaxAttempts)
	}

	durations := map[string]time.Duration{
		"request_timeout": cfg.RequestTimeout,
		"base_delay":      cfg.BaseDelay,
	}
	for name, d := range durations {
		if err := validateDuration(d, name, 5*time.Minute); err != nil {
			return err
		}
	}

	if cfg.PromptMaxLen < 256 {
		return fmt.Errorf("prompt_max_len is too small to hold a finding: %d", cfg.PromptMaxLen)
	}
	if cfg.BodyMaxLen < 256 {
		return fmt.Errorf("body_max_len is too small to hold a notification: %d", cfg.BodyMaxLen)
	}

	return nil
}

// validateDuration checks that a time.Duration is positive and within a specified maximum.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("invalid duration for %s: %v must be positive", name, d)
	}
	if d > max {
		return fmt.Errorf("%s duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateURL checks that the webhook URL is absolute and uses an HTTP scheme.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("webhook_url must use http or https: %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("webhook_url has no host: %q", raw)
	}
	return nil
}
