package event

import (
	"strings"

	"github.com/secops-tools/inspector-notify/pkg/shared/errors"
)

// Unknown is the sentinel stored in every optional field that the scanner
// did not populate. Downstream formatting relies on fields never being empty.
const Unknown = "unknown"

// StatusActive is the only finding status that produces a notification.
const StatusActive = "ACTIVE"

// Normalize validates a raw event and flattens it into the canonical finding
// record. It is a pure function: no I/O, and identical input always yields
// identical output.
//
// It fails with a ValidationError when the envelope does not carry an
// Inspector2 finding, when the finding identifier is absent, or when no
// affected resource is listed. Those failures are non-recoverable; the
// caller must not retry without correcting the event. Missing optional
// fields degrade to the Unknown sentinel instead of failing, so schema
// drift across scanner versions does not break the pipeline.
func Normalize(raw RawEvent) (NormalizedFinding, error) {
	if raw.Source != SourceInspector2 {
		return NormalizedFinding{}, errors.NewValidationError("source", "expected "+SourceInspector2)
	}
	if raw.DetailType != DetailTypeFinding {
		return NormalizedFinding{}, errors.NewValidationError("detail-type", "expected "+DetailTypeFinding)
	}

	detail := raw.Detail
	if strings.TrimSpace(detail.FindingArn) == "" {
		return NormalizedFinding{}, errors.NewValidationError("detail.findingArn", "finding identifier is absent")
	}
	if len(detail.Resources) == 0 || strings.TrimSpace(detail.Resources[0].ID) == "" {
		return NormalizedFinding{}, errors.NewValidationError("detail.resources", "no affected resource id")
	}

	primary := detail.Resources[0]

	finding := NormalizedFinding{
		FindingID:       strings.TrimSpace(detail.FindingArn),
		Severity:        ParseSeverity(detail.Severity),
		Status:          defaulted(strings.ToUpper(strings.TrimSpace(detail.Status))),
		Title:           defaulted(detail.Title),
		Description:     defaulted(detail.Description),
		FindingType:     defaulted(detail.Type),
		ResourceID:      strings.TrimSpace(primary.ID),
		ResourceType:    defaulted(primary.Type),
		Platform:        Unknown,
		Account:         defaulted(raw.Account),
		Region:          defaulted(raw.Region),
		VulnerabilityID: Unknown,
		PackageName:     Unknown,
		PackageVersion:  Unknown,
		RecommendedURL:  Unknown,
	}

	if inst := primary.Details.AwsEc2Instance; inst != nil {
		finding.Platform = defaulted(inst.Platform)
	}

	if pvd := detail.PackageVulnerabilityDetails; pvd != nil {
		finding.VulnerabilityID = defaulted(pvd.VulnerabilityID)
		if len(pvd.VulnerablePackages) > 0 {
			finding.PackageName = defaulted(pvd.VulnerablePackages[0].Name)
			finding.PackageVersion = defaulted(pvd.VulnerablePackages[0].Version)
		}
	}

	if detail.Remediation != nil && detail.Remediation.Recommendation != nil {
		finding.RecommendedURL = defaulted(detail.Remediation.Recommendation.URL)
	}

	return finding, nil
}

// defaulted replaces an empty or whitespace-only value with the Unknown sentinel.
func defaulted(v string) string {
	if strings.TrimSpace(v) == "" {
		return Unknown
	}
	return strings.TrimSpace(v)
}
