package notify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/secops-tools/inspector-notify/internal/config"
	"github.com/secops-tools/inspector-notify/pkg/shared/errors"
	"github.com/secops-tools/inspector-notify/pkg/shared/httpclient"
)

// webhookPayload is the JSON body posted to the webhook endpoint.
type webhookPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// WebhookPublisher delivers notifications as JSON POSTs to an HTTP endpoint.
// Alternative channel for deployments without SNS.
type WebhookPublisher struct {
	httpc  *resty.Client
	url    string
	logger hclog.Logger
}

// NewWebhookPublisher creates a WebhookPublisher for the configured endpoint.
func NewWebhookPublisher(logger hclog.Logger, cfg *config.Config) *WebhookPublisher {
	return &WebhookPublisher{
		httpc:  httpclient.InitializeRestyClient(logger, cfg.RequestTimeout),
		url:    cfg.WebhookURL,
		logger: logger,
	}
}

// Publish posts the message to the endpoint. Any transport failure or
// non-2xx response surfaces as a PublishError; no internal retry.
func (p *WebhookPublisher) Publish(ctx context.Context, msg Message) (Receipt, error) {
	resp, err := p.httpc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{Subject: msg.Subject, Body: msg.Body}).
		Post(p.url)
	if err != nil {
		return Receipt{}, errors.NewPublishError("webhook", err)
	}
	if resp.IsError() {
		return Receipt{}, errors.NewPublishError("webhook",
			fmt.Errorf("endpoint returned status %d", resp.StatusCode()))
	}

	// Webhook endpoints return no delivery id; synthesize one so the
	// receipt stays non-empty for observability.
	receipt := Receipt{MessageID: uuid.NewString()}
	p.logger.Debug("Published notification to webhook", "status", resp.StatusCode(), "messageId", receipt.MessageID)
	return receipt, nil
}
