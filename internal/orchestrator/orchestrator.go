// Package orchestrator sequences the enrichment pipeline for one finding
// event: normalize, build the prompt, invoke the model, format, publish.
// Stages run strictly in order and the pipeline advances only on stage
// success; the first failure stops the invocation.
//
// Each invocation is isolated: no state survives between events, and the
// event source's at-least-once delivery means a redelivered finding is
// processed again in full and may produce a duplicate alert. Deduplication
// would need cross-invocation state and is deliberately not done here;
// channel consumers must tolerate duplicates.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/secops-tools/inspector-notify/internal/bedrock"
	"github.com/secops-tools/inspector-notify/internal/config"
	"github.com/secops-tools/inspector-notify/internal/event"
	"github.com/secops-tools/inspector-notify/internal/notify"
	"github.com/secops-tools/inspector-notify/internal/prompt"
)

// Stage identifies how far an invocation progressed.
type Stage string

const (
	StageReceived     Stage = "Received"
	StageNormalized   Stage = "Normalized"
	StagePromptBuilt  Stage = "PromptBuilt"
	StageModelInvoked Stage = "ModelInvoked"
	StageFormatted    Stage = "Formatted"
	StagePublished    Stage = "Published"
	StageCompleted    Stage = "Completed"
)

// StageError carries the originating stage and correlation id of a failed
// invocation so failures are traceable end-to-end.
type StageError struct {
	Stage         Stage
	CorrelationID string
	Err           error
}

// Error implements the error interface for StageError.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (correlationId=%s): %v", e.Stage, e.CorrelationID, e.Err)
}

// Unwrap exposes the originating stage failure.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Deps bundles the external collaborators behind capability interfaces so
// the pipeline runs against test doubles without network access.
type Deps struct {
	Invoker   bedrock.Invoker
	Publisher notify.Publisher
}

// Result is the success value of one invocation.
type Result struct {
	Receipt   notify.Receipt
	Stage     Stage
	FindingID string
	// Skipped is set when the event was valid but carried a non-ACTIVE
	// finding; no model call and no publish happened.
	Skipped bool
}

// Orchestrator is the single entry point of the pipeline. Configuration is
// fixed at construction; Handle holds no mutable state, so one Orchestrator
// may serve concurrent invocations.
type Orchestrator struct {
	builder   prompt.Builder
	formatter notify.Formatter
	deps      Deps
	logger    hclog.Logger
}

// New creates an Orchestrator from immutable configuration and dependencies.
func New(logger hclog.Logger, cfg *config.Config, deps Deps) *Orchestrator {
	return &Orchestrator{
		builder:   prompt.NewBuilder(cfg.PromptMaxLen),
		formatter: notify.NewFormatter(cfg.BodyMaxLen),
		deps:      deps,
		logger:    logger,
	}
}

// Handle processes one raw finding event to completion. On failure it
// returns a StageError carrying the originating stage and the finding
// identifier as correlation id.
func (o *Orchestrator) Handle(ctx context.Context, raw event.RawEvent) (Result, error) {
	// Until normalization succeeds there is no finding id to correlate
	// on, so start from a generated one.
	correlationID := raw.Detail.FindingArn
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	logger := o.logger.With("findingId", correlationID)
	logger.Info("Received finding event", "source", raw.Source, "detailType", raw.DetailType)

	finding, err := event.Normalize(raw)
	if err != nil {
		return Result{}, o.fail(logger, StageNormalized, correlationID, err)
	}
	correlationID = finding.FindingID
	logger = o.logger.With("findingId", correlationID)
	logger.Debug("Normalized finding", "severity", finding.Severity, "resourceId", finding.ResourceID)

	if finding.Status != event.StatusActive && finding.Status != event.Unknown {
		logger.Info("Skipping non-ACTIVE finding", "status", finding.Status)
		return Result{Stage: StageNormalized, FindingID: finding.FindingID, Skipped: true}, nil
	}

	pc := o.builder.Build(finding)
	logger.Debug("Built model prompt", "length", len(pc.Text), "truncated", pc.Truncated)

	resp, err := o.deps.Invoker.Invoke(ctx, pc)
	if err != nil {
		return Result{}, o.fail(logger, StageModelInvoked, correlationID, err)
	}
	logger.Debug("Model invocation succeeded", "responseLength", len(resp.Text))

	msg := o.formatter.Format(finding, resp)

	receipt, err := o.deps.Publisher.Publish(ctx, msg)
	if err != nil {
		return Result{}, o.fail(logger, StagePublished, correlationID, err)
	}
	logger.Info("Published notification", "messageId", receipt.MessageID, "subject", msg.Subject)

	return Result{
		Receipt:   receipt,
		Stage:     StageCompleted,
		FindingID: finding.FindingID,
	}, nil
}

// fail logs and wraps a stage failure with its correlation id. The stage
// recorded is the one that failed.
func (o *Orchestrator) fail(logger hclog.Logger, stage Stage, correlationID string, err error) error {
	logger.Error("Invocation failed", "stage", stage, "error", err)
	return &StageError{Stage: stage, CorrelationID: correlationID, Err: err}
}
