// Package config holds the immutable runtime configuration of the pipeline.
// It is built once at process start, validated, and passed into constructors;
// nothing reads configuration ad hoc afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Logger holds logging configuration.
type Logger struct {
	Level           string `yaml:"level,omitempty"`
	JSONFormat      bool   `yaml:"json_format,omitempty"`
	IncludeLocation bool   `yaml:"include_location,omitempty"`
}

// Config represents the entire pipeline configuration.
type Config struct {
	// Notification channel. TopicARN selects SNS; WebhookURL selects the
	// HTTP webhook channel. Exactly one must be set.
	TopicARN   string `yaml:"topic_arn,omitempty"`
	WebhookURL string `yaml:"webhook_url,omitempty"`

	// Model service.
	Region         string        `yaml:"region,omitempty"`
	ModelID        string        `yaml:"model_id,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	MaxAttempts    int           `yaml:"max_attempts,omitempty"`
	BaseDelay      time.Duration `yaml:"base_delay,omitempty"`

	// Rendering budgets.
	PromptMaxLen int `yaml:"prompt_max_len,omitempty"`
	BodyMaxLen   int `yaml:"body_max_len,omitempty"`

	Logger Logger `yaml:"logger,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Region:         "us-west-2",
		ModelID:        "amazon.titan-text-express-v1",
		RequestTimeout: 30 * time.Second,
		MaxAttempts:    3,
		BaseDelay:      500 * time.Millisecond,
		PromptMaxLen:   4000,
		BodyMaxLen:     8000,
		Logger: Logger{
			Level: "INFO",
		},
	}
}

// FromEnv builds a configuration from environment variables on top of the
// defaults. Unset variables keep their default values.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("SNS_TOPIC_ARN"); v != "" {
		cfg.TopicARN = v
	}
	if v := os.Getenv("NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Region = v
	}
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.ModelID = v
	}
	if v := os.Getenv("MODEL_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse MODEL_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("MODEL_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse MODEL_MAX_ATTEMPTS: %w", err)
		}
		cfg.MaxAttempts = n
	}
	if v := os.Getenv("MODEL_BACKOFF_BASE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse MODEL_BACKOFF_BASE_DELAY: %w", err)
		}
		cfg.BaseDelay = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}

	return cfg, nil
}

// Load loads a YAML configuration overlay from the specified file on top of
// the defaults. Used by the local CLI; the Lambda entrypoint uses FromEnv.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file: %w", err)
	}
	return cfg, nil
}
