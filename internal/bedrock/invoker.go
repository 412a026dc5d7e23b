// Package bedrock calls the generative-model service for remediation
// guidance. It owns the retry policy for transient service failures; every
// other stage of the pipeline treats the model call as a single operation.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"
	"github.com/hashicorp/go-hclog"

	"github.com/secops-tools/inspector-notify/internal/config"
	"github.com/secops-tools/inspector-notify/internal/prompt"
	"github.com/secops-tools/inspector-notify/pkg/shared/errors"
)

// ModelResponse is the shaped model output. Each invocation produces a fresh
// value; no retry state is stored in it.
type ModelResponse struct {
	Text      string
	Truncated bool
}

// Invoker is the capability interface the orchestrator depends on.
type Invoker interface {
	Invoke(ctx context.Context, pc prompt.Context) (ModelResponse, error)
}

// modelAPI is the slice of the Bedrock runtime client the invoker uses.
// Narrowed for substitution in tests.
type modelAPI interface {
	InvokeModelWithContext(aws.Context, *bedrockruntime.InvokeModelInput, ...request.Option) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockInvoker invokes a Bedrock text model with bounded retries.
type BedrockInvoker struct {
	api     modelAPI
	modelID string
	timeout time.Duration
	policy  Policy
	logger  hclog.Logger
}

// NewInvoker creates a BedrockInvoker from the configuration, building a
// fresh session for the configured region. The SDK's own retryer is disabled
// so that attempt accounting lives in one place.
func NewInvoker(logger hclog.Logger, cfg *config.Config) (*BedrockInvoker, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:     aws.String(cfg.Region),
		MaxRetries: aws.Int(0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &BedrockInvoker{
		api:     bedrockruntime.New(sess),
		modelID: cfg.ModelID,
		timeout: cfg.RequestTimeout,
		policy:  DefaultPolicy(cfg.MaxAttempts, cfg.BaseDelay),
		logger:  logger,
	}, nil
}

// newInvokerWithAPI wires an explicit API and policy. Used by tests.
func newInvokerWithAPI(logger hclog.Logger, api modelAPI, modelID string, timeout time.Duration, policy Policy) *BedrockInvoker {
	return &BedrockInvoker{api: api, modelID: modelID, timeout: timeout, policy: policy, logger: logger}
}

// titanRequest is the request body for Amazon Titan text models.
type titanRequest struct {
	InputText string      `json:"inputText"`
	Config    titanConfig `json:"textGenerationConfig"`
}

type titanConfig struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
	MaxTokenCount int     `json:"maxTokenCount"`
}

// titanResponse is the response body for Amazon Titan text models.
type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

// Invoke calls the model with the rendered prompt. Transient failures are
// retried with exponential backoff and jitter up to the policy's attempt
// budget, each attempt under a fresh timeout window. Non-retryable failures
// surface immediately as PermanentServiceError without consuming the budget;
// exhausting the budget surfaces a TransientServiceError carrying the last
// cause.
func (inv *BedrockInvoker) Invoke(ctx context.Context, pc prompt.Context) (ModelResponse, error) {
	var lastErr error

	for attempt := 0; attempt < inv.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := inv.policy.delay(attempt - 1)
			inv.logger.Debug("Retrying model invocation", "attempt", attempt+1, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ModelResponse{}, errors.NewTransientServiceError(attempt, ctx.Err())
			}
		}

		resp, err := inv.invokeOnce(ctx, pc)
		if err == nil {
			return resp, nil
		}
		if !isTransient(err) {
			inv.logger.Error("Model invocation failed permanently", "code", errorCode(err), "error", err)
			return ModelResponse{}, errors.NewPermanentServiceError(errorCode(err), err)
		}

		inv.logger.Warn("Model invocation failed transiently", "attempt", attempt+1, "error", err)
		lastErr = err
	}

	return ModelResponse{}, errors.NewTransientServiceError(inv.policy.MaxAttempts, lastErr)
}

// invokeOnce performs a single model call under a fresh timeout window.
func (inv *BedrockInvoker) invokeOnce(ctx context.Context, pc prompt.Context) (ModelResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	body, err := json.Marshal(titanRequest{
		InputText: pc.Text,
		Config: titanConfig{
			Temperature:   0.3,
			TopP:          0.9,
			MaxTokenCount: 2048,
		},
	})
	if err != nil {
		return ModelResponse{}, fmt.Errorf("failed to marshal model request: %w", err)
	}

	out, err := inv.api.InvokeModelWithContext(attemptCtx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(inv.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return ModelResponse{}, err
	}

	var parsed titanResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return ModelResponse{}, fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(parsed.Results) == 0 {
		// Treated as an empty response; the formatter substitutes the
		// fallback text rather than failing the invocation.
		return ModelResponse{Truncated: pc.Truncated}, nil
	}

	return ModelResponse{
		Text:      strings.TrimSpace(parsed.Results[0].OutputText),
		Truncated: pc.Truncated,
	}, nil
}
