package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/hashicorp/go-hclog"

	"github.com/secops-tools/inspector-notify/internal/config"
	"github.com/secops-tools/inspector-notify/pkg/shared/errors"
)

// snsAPI is the slice of the SNS client the publisher uses.
type snsAPI interface {
	PublishWithContext(aws.Context, *sns.PublishInput, ...request.Option) (*sns.PublishOutput, error)
}

// SNSPublisher delivers notifications to an SNS topic.
type SNSPublisher struct {
	api      snsAPI
	topicARN string
	logger   hclog.Logger
}

// NewSNSPublisher creates an SNSPublisher for the configured topic.
func NewSNSPublisher(logger hclog.Logger, cfg *config.Config) (*SNSPublisher, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &SNSPublisher{
		api:      sns.New(sess),
		topicARN: cfg.TopicARN,
		logger:   logger,
	}, nil
}

// Publish sends the message to the topic. Channel-level rejection surfaces
// as a PublishError and is not retried here; redelivery is the platform's
// concern.
func (p *SNSPublisher) Publish(ctx context.Context, msg Message) (Receipt, error) {
	out, err := p.api.PublishWithContext(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(msg.Subject),
		Message:  aws.String(msg.Body),
	})
	if err != nil {
		return Receipt{}, errors.NewPublishError("sns", err)
	}

	receipt := Receipt{MessageID: aws.StringValue(out.MessageId)}
	p.logger.Debug("Published notification to SNS", "messageId", receipt.MessageID)
	return receipt, nil
}
