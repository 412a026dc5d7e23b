package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/secops-tools/inspector-notify/internal/bedrock"
	"github.com/secops-tools/inspector-notify/internal/config"
	"github.com/secops-tools/inspector-notify/internal/event"
	"github.com/secops-tools/inspector-notify/internal/notify"
	"github.com/secops-tools/inspector-notify/internal/orchestrator"
	"github.com/secops-tools/inspector-notify/internal/prompt"
	"github.com/secops-tools/inspector-notify/pkg/shared/logger"
)

type processOptions struct {
	ConfigPath string
	DryRun     bool
}

// cannedInvoker replaces the model in dry-run mode so no AWS call happens.
type cannedInvoker struct{}

func (cannedInvoker) Invoke(_ context.Context, _ prompt.Context) (bedrock.ModelResponse, error) {
	return bedrock.ModelResponse{Text: "Dry run: no model was invoked."}, nil
}

func newProcessCmd() *cobra.Command {
	opts := processOptions{}

	cmd := &cobra.Command{
		Use:   "process [flags] <event.json>",
		Short: "Run one finding event through the enrichment pipeline.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "YAML config overlay (defaults come from the environment)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the notification instead of publishing, skip the model call")

	return cmd
}

func runProcess(opts processOptions, eventPath string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	raw, err := readEvent(eventPath)
	if err != nil {
		return err
	}

	lg := logger.NewLogger(&cfg, "inspector-notify")

	deps, err := buildDeps(lg, &cfg, opts.DryRun)
	if err != nil {
		return err
	}

	orc := orchestrator.New(lg, &cfg, deps)
	result, err := orc.Handle(context.Background(), raw)
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Printf("Finding %s skipped (non-ACTIVE status)\n", result.FindingID)
		return nil
	}
	fmt.Printf("Notification sent: messageId=%s findingArn=%s\n", result.Receipt.MessageID, result.FindingID)
	return nil
}

func loadConfig(opts processOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return config.Config{}, err
	}

	// Dry runs never touch a channel, so a missing topic must not block them.
	if opts.DryRun && cfg.TopicARN == "" && cfg.WebhookURL == "" {
		cfg.TopicARN = "arn:aws:sns:local:000000000000:dry-run"
	}

	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func readEvent(path string) (event.RawEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return event.RawEvent{}, fmt.Errorf("failed to read event file: %w", err)
	}
	var raw event.RawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return event.RawEvent{}, fmt.Errorf("failed to decode event file: %w", err)
	}
	return raw, nil
}

func buildDeps(lg hclog.Logger, cfg *config.Config, dryRun bool) (orchestrator.Deps, error) {
	if dryRun {
		return orchestrator.Deps{
			Invoker:   cannedInvoker{},
			Publisher: notify.StdoutPublisher{Out: os.Stdout},
		}, nil
	}

	invoker, err := bedrock.NewInvoker(lg.Named("bedrock"), cfg)
	if err != nil {
		return orchestrator.Deps{}, err
	}

	var publisher notify.Publisher
	if cfg.WebhookURL != "" {
		publisher = notify.NewWebhookPublisher(lg.Named("webhook"), cfg)
	} else {
		publisher, err = notify.NewSNSPublisher(lg.Named("sns"), cfg)
		if err != nil {
			return orchestrator.Deps{}, err
		}
	}

	return orchestrator.Deps{Invoker: invoker, Publisher: publisher}, nil
}
