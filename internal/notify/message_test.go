package notify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/secops-tools/inspector-notify/internal/bedrock"
	"github.com/secops-tools/inspector-notify/internal/event"
)

func sampleFinding() event.NormalizedFinding {
	return event.NormalizedFinding{
		FindingID:       "arn:aws:inspector2:us-west-2:123456789012:finding/abc123",
		Severity:        event.SeverityHigh,
		Status:          "ACTIVE",
		Title:           "Outdated OpenSSL package",
		Description:     "CVE-2023-0286 affects openssl",
		FindingType:     "PACKAGE_VULNERABILITY",
		ResourceID:      "i-0123456789abcdef0",
		ResourceType:    "AWS_EC2_INSTANCE",
		Platform:        "AMAZON_LINUX_2",
		Account:         "123456789012",
		Region:          "us-west-2",
		VulnerabilityID: "CVE-2023-0286",
		PackageName:     "openssl",
		PackageVersion:  "1.0.2k",
		RecommendedURL:  event.Unknown,
	}
}

func TestSubjectEncodesSeverityAndResource(t *testing.T) {
	subject := Subject(sampleFinding())

	assert.Contains(t, subject, "HIGH")
	assert.Contains(t, subject, "i-0123456789abcdef0")
	assert.Contains(t, subject, "Outdated OpenSSL package")
	assert.True(t, strings.HasPrefix(subject, "[Inspector]"))
	assert.LessOrEqual(t, len(subject), 100, "SNS caps subjects at 100 characters")
}

func TestSubjectCollapsesAndCapsTitle(t *testing.T) {
	finding := sampleFinding()
	finding.Title = "multi\nline   title\twith \n whitespace " + strings.Repeat("x", 200)

	subject := Subject(finding)
	assert.NotContains(t, subject, "\n")
	assert.NotContains(t, subject, "\t")
	assert.LessOrEqual(t, len(subject), 100)
}

func TestFormatEmptyModelTextUsesFallback(t *testing.T) {
	f := NewFormatter(8000)

	for _, text := range []string{"", "   ", "\n\t"} {
		msg := f.Format(sampleFinding(), bedrock.ModelResponse{Text: text})
		assert.NotEmpty(t, msg.Body)
		assert.Contains(t, msg.Body, FallbackBody)
	}
}

func TestFormatBodyContainsFindingAndGuidance(t *testing.T) {
	f := NewFormatter(8000)
	msg := f.Format(sampleFinding(), bedrock.ModelResponse{Text: "Upgrade openssl to 1.0.2zg and reboot."})

	assert.Contains(t, msg.Body, "Upgrade openssl to 1.0.2zg and reboot.")
	assert.Contains(t, msg.Body, "arn:aws:inspector2:us-west-2:123456789012:finding/abc123")
	assert.Contains(t, msg.Body, "Severity: HIGH")
	assert.Contains(t, msg.Body, "Package: openssl 1.0.2k")
	assert.Contains(t, msg.Body, "Account: 123456789012")
}

func TestFormatOmitsUnknownOptionalSections(t *testing.T) {
	finding := sampleFinding()
	finding.PackageName = event.Unknown
	finding.VulnerabilityID = event.Unknown

	msg := NewFormatter(8000).Format(finding, bedrock.ModelResponse{Text: "guidance"})
	assert.NotContains(t, msg.Body, "Package:")
	assert.NotContains(t, msg.Body, "Vulnerability:")
	assert.NotContains(t, msg.Body, "AWS Recommendation:")
}

func TestSubjectStaysValidUTF8OnMultibyteTitle(t *testing.T) {
	finding := sampleFinding()
	finding.Title = strings.Repeat("уязвимость пакета ", 20)

	subject := Subject(finding)
	assert.LessOrEqual(t, len(subject), 100)
	assert.True(t, utf8.ValidString(subject), "cap must not split a rune")
}

func TestFormatBodyStaysValidUTF8OnMultibyteGuidance(t *testing.T) {
	msg := NewFormatter(500).Format(sampleFinding(), bedrock.ModelResponse{Text: strings.Repeat("обновите пакет openssl ", 100)})

	assert.LessOrEqual(t, len(msg.Body), 500)
	assert.True(t, utf8.ValidString(msg.Body), "cap must not split a rune")
	assert.True(t, strings.HasSuffix(msg.Body, "[truncated]"))
}

func TestFormatTruncatesLongBody(t *testing.T) {
	f := NewFormatter(500)
	msg := f.Format(sampleFinding(), bedrock.ModelResponse{Text: strings.Repeat("remediate ", 200)})

	assert.LessOrEqual(t, len(msg.Body), 500)
	assert.True(t, strings.HasSuffix(msg.Body, "[truncated]"))
}

func TestFormatIsDeterministic(t *testing.T) {
	f := NewFormatter(8000)
	resp := bedrock.ModelResponse{Text: "Apply the vendor patch."}

	first := f.Format(sampleFinding(), resp)
	second := f.Format(sampleFinding(), resp)
	assert.Equal(t, first, second)
}

func TestFormatNotesTruncatedAnalysis(t *testing.T) {
	msg := NewFormatter(8000).Format(sampleFinding(), bedrock.ModelResponse{Text: "guidance", Truncated: true})
	assert.Contains(t, msg.Body, "shortened before analysis")
}
