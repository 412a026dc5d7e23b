// Package prompt renders a normalized finding into the text submitted to the
// generative-model service. Rendering is deterministic: the same finding
// always yields byte-identical prompt text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/secops-tools/inspector-notify/internal/event"
)

// Field budget shares within the total prompt budget. The description gets
// whatever remains after the fixed preamble and the bounded short fields.
const (
	titleBudget   = 200
	packageBudget = 100
	idBudget      = 120
	minDescBudget = 80
)

// Context is the immutable prompt value handed to the model invoker. It is
// built solely from a NormalizedFinding and carries no secret or credential.
type Context struct {
	Text      string
	Truncated bool
}

// Builder renders findings into prompts within a fixed length budget.
type Builder struct {
	MaxLen int
}

// NewBuilder creates a Builder with the given total prompt budget.
func NewBuilder(maxLen int) Builder {
	return Builder{MaxLen: maxLen}
}

// Build renders the finding into a prompt. Fields exceeding their share of
// the budget are cut with an explicit ellipsis marker, never silently
// dropped; the whole prompt never exceeds MaxLen.
func (b Builder) Build(finding event.NormalizedFinding) Context {
	truncated := false
	cut := func(s string, max int) string {
		out, wasCut := truncate(sanitize(s), max)
		truncated = truncated || wasCut
		return out
	}

	platformLine := ""
	if finding.Platform != event.Unknown {
		platformLine = fmt.Sprintf(" The affected instance is running %s.", cut(finding.Platform, idBudget))
	}

	var sb strings.Builder
	sb.WriteString("You are an experienced cloud security engineer.")
	sb.WriteString(platformLine)
	sb.WriteString("\n\n")
	sb.WriteString("You are given an Amazon Inspector vulnerability finding for a cloud resource.\n")
	sb.WriteString("1. Explain the vulnerability in clear, concise language.\n")
	sb.WriteString("2. Provide specific remediation steps, including relevant commands.\n")
	sb.WriteString("3. Keep the answer under 600 words.\n\n")
	sb.WriteString("Finding:\n")

	fmt.Fprintf(&sb, "Vulnerability: %s\n", cut(finding.VulnerabilityID, idBudget))
	fmt.Fprintf(&sb, "Severity: %s\n", finding.Severity)
	fmt.Fprintf(&sb, "Title: %s\n", cut(finding.Title, titleBudget))
	fmt.Fprintf(&sb, "Package: %s %s\n", cut(finding.PackageName, packageBudget), cut(finding.PackageVersion, packageBudget))
	fmt.Fprintf(&sb, "Resource type: %s\n", cut(finding.ResourceType, idBudget))

	// Description absorbs the remaining budget but always keeps a floor so
	// a pathological MaxLen still produces a usable prompt.
	descBudget := b.MaxLen - sb.Len() - len("Description: \n")
	if descBudget < minDescBudget {
		descBudget = minDescBudget
	}
	fmt.Fprintf(&sb, "Description: %s\n", cut(finding.Description, descBudget))

	text := sb.String()
	if len(text) > b.MaxLen {
		text, _ = truncate(text, b.MaxLen)
		truncated = true
	}

	return Context{Text: text, Truncated: truncated}
}
