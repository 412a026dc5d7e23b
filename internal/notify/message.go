// Package notify shapes the model output into an operator-facing alert and
// delivers it to the configured notification channel.
package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/secops-tools/inspector-notify/internal/bedrock"
	"github.com/secops-tools/inspector-notify/internal/event"
)

// SNS caps subjects at 100 characters.
const subjectMaxLen = 100

// FallbackBody replaces an empty model response. A degraded-but-delivered
// alert beats silence.
const FallbackBody = "No remediation recommendations available at this time."

const truncationMarker = "\n[truncated]"

// Message is the formatted notification. Subject always encodes severity and
// resource id so operators can triage from the subject line alone.
type Message struct {
	Subject string
	Body    string
}

// Receipt is the opaque delivery confirmation returned by the channel.
type Receipt struct {
	MessageID string
}

// Publisher is the capability interface for the notification channel.
// Publishing is treated as idempotent at the channel level: the upstream
// event source may redeliver, and duplicate alerts are acceptable.
type Publisher interface {
	Publish(ctx context.Context, msg Message) (Receipt, error)
}

// Formatter shapes findings and model responses into notification messages.
type Formatter struct {
	BodyMaxLen int
}

// NewFormatter creates a Formatter with the given body budget.
func NewFormatter(bodyMaxLen int) Formatter {
	return Formatter{BodyMaxLen: bodyMaxLen}
}

// Format derives the notification message deterministically from the finding
// and the model response. An empty model text is replaced with FallbackBody;
// an over-long body is cut with an explicit marker. Format is total: it
// never fails.
func (f Formatter) Format(finding event.NormalizedFinding, resp bedrock.ModelResponse) Message {
	return Message{
		Subject: Subject(finding),
		Body:    f.body(finding, resp),
	}
}

// Subject renders the fixed-format subject line: severity tag, resource id,
// short title. The format is stable so downstream filtering rules keep
// working across runs.
func Subject(finding event.NormalizedFinding) string {
	title := strings.Join(strings.Fields(finding.Title), " ")
	if len(title) > 80 {
		title = capBytes(title, 77) + "..."
	}

	subject := fmt.Sprintf("[Inspector] %s - %s - %s", finding.Severity, finding.ResourceID, title)
	if len(subject) > subjectMaxLen {
		subject = capBytes(subject, subjectMaxLen)
	}
	return subject
}

// capBytes cuts s to at most max bytes without splitting a multibyte rune.
// SNS rejects subjects carrying invalid UTF-8.
func capBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func (f Formatter) body(finding event.NormalizedFinding, resp bedrock.ModelResponse) string {
	guidance := strings.TrimSpace(resp.Text)
	if guidance == "" {
		guidance = FallbackBody
	}

	lines := []string{
		"New Amazon Inspector Finding",
		strings.Repeat("=", 60),
		"",
		fmt.Sprintf("Account: %s", finding.Account),
		fmt.Sprintf("Region: %s", finding.Region),
		"",
		fmt.Sprintf("Severity: %s", finding.Severity),
		fmt.Sprintf("Status: %s", finding.Status),
		"",
		fmt.Sprintf("Title: %s", finding.Title),
		fmt.Sprintf("Description: %s", finding.Description),
		"",
		fmt.Sprintf("Finding ARN: %s", finding.FindingID),
		fmt.Sprintf("Finding Type: %s", finding.FindingType),
		fmt.Sprintf("Resource: %s (%s)", finding.ResourceID, finding.ResourceType),
	}

	if finding.PackageName != event.Unknown {
		lines = append(lines, fmt.Sprintf("Package: %s %s", finding.PackageName, finding.PackageVersion))
	}
	if finding.VulnerabilityID != event.Unknown {
		lines = append(lines, fmt.Sprintf("Vulnerability: %s", finding.VulnerabilityID))
	}
	if finding.RecommendedURL != event.Unknown {
		lines = append(lines, "", fmt.Sprintf("AWS Recommendation: %s", finding.RecommendedURL))
	}

	lines = append(lines,
		"",
		"AI-Generated Remediation Guidance:",
		strings.Repeat("-", 60),
		guidance,
	)
	if resp.Truncated {
		lines = append(lines, "", "Note: the finding was shortened before analysis due to size limits.")
	}
	lines = append(lines,
		"",
		"Note: AI recommendations should be validated before implementation.",
	)

	body := strings.Join(lines, "\n")
	if len(body) > f.BodyMaxLen {
		body = capBytes(body, f.BodyMaxLen-len(truncationMarker)) + truncationMarker
	}
	return body
}
