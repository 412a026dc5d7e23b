// Lambda entrypoint. Configuration and dependencies are built once at cold
// start; every invocation then runs the pipeline against the same immutable
// wiring.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/secops-tools/inspector-notify/internal/bedrock"
	"github.com/secops-tools/inspector-notify/internal/config"
	"github.com/secops-tools/inspector-notify/internal/event"
	"github.com/secops-tools/inspector-notify/internal/notify"
	"github.com/secops-tools/inspector-notify/internal/orchestrator"
	"github.com/secops-tools/inspector-notify/pkg/shared/logger"
)

// Response is the value returned to the invoking platform on success.
type Response struct {
	StatusCode int    `json:"statusCode"`
	MessageID  string `json:"messageId,omitempty"`
	FindingArn string `json:"findingArn,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("failed to read configuration: %v", err)
	}
	if err := config.Validate(&cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	lg := logger.NewLogger(&cfg, "inspector-notify")

	invoker, err := bedrock.NewInvoker(lg.Named("bedrock"), &cfg)
	if err != nil {
		log.Fatalf("failed to create model invoker: %v", err)
	}

	var publisher notify.Publisher
	if cfg.WebhookURL != "" {
		publisher = notify.NewWebhookPublisher(lg.Named("webhook"), &cfg)
	} else {
		publisher, err = notify.NewSNSPublisher(lg.Named("sns"), &cfg)
		if err != nil {
			log.Fatalf("failed to create SNS publisher: %v", err)
		}
	}

	orc := orchestrator.New(lg, &cfg, orchestrator.Deps{
		Invoker:   invoker,
		Publisher: publisher,
	})

	lambda.Start(func(ctx context.Context, raw event.RawEvent) (Response, error) {
		result, err := orc.Handle(ctx, raw)
		if err != nil {
			// Surfaced unmodified: the platform's redelivery and
			// dead-letter handling is the recovery path.
			return Response{}, err
		}
		return Response{
			StatusCode: 200,
			MessageID:  result.Receipt.MessageID,
			FindingArn: result.FindingID,
			Skipped:    result.Skipped,
		}, nil
	})
}
