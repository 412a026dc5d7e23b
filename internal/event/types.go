// Package event defines the Inspector2 EventBridge event model and its
// normalization into the canonical finding record used by all downstream
// stages.
package event

import "strings"

// Expected envelope tags for an Inspector2 finding event.
const (
	SourceInspector2  = "aws.inspector2"
	DetailTypeFinding = "Inspector2 Finding"
)

// Severity is the canonical severity of a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityUnknown  Severity = "UNKNOWN"
)

// ParseSeverity maps a raw scanner severity onto the canonical enum.
// Anything outside the four ranked levels, including Inspector's
// INFORMATIONAL and UNTRIAGED, maps to UNKNOWN.
func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToUpper(strings.TrimSpace(raw))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// RawEvent is the unmodified EventBridge envelope carrying an Inspector2
// finding. The schema is untrusted and may vary by scanner version; unknown
// fields are ignored.
type RawEvent struct {
	Version    string `json:"version,omitempty"`
	ID         string `json:"id,omitempty"`
	DetailType string `json:"detail-type"`
	Source     string `json:"source"`
	Account    string `json:"account,omitempty"`
	Region     string `json:"region,omitempty"`
	Time       string `json:"time,omitempty"`
	Detail     Detail `json:"detail"`
}

// Detail is the Inspector2 finding payload inside the envelope.
type Detail struct {
	FindingArn                  string       `json:"findingArn"`
	Severity                    string       `json:"severity"`
	Status                      string       `json:"status"`
	Title                       string       `json:"title"`
	Description                 string       `json:"description"`
	Type                        string       `json:"type"`
	InspectorScore              float64      `json:"inspectorScore,omitempty"`
	Resources                   []Resource   `json:"resources"`
	PackageVulnerabilityDetails *PackageVuln `json:"packageVulnerabilityDetails,omitempty"`
	Remediation                 *Remediation `json:"remediation,omitempty"`
}

// Resource identifies one affected resource.
type Resource struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Details ResourceDetails `json:"details,omitempty"`
}

// ResourceDetails carries resource-type-specific metadata.
type ResourceDetails struct {
	AwsEc2Instance *Ec2Instance `json:"awsEc2Instance,omitempty"`
}

// Ec2Instance holds the EC2 fields the pipeline cares about.
type Ec2Instance struct {
	Platform string `json:"platform,omitempty"`
	ImageID  string `json:"imageId,omitempty"`
}

// PackageVuln holds package vulnerability metadata.
type PackageVuln struct {
	VulnerabilityID    string       `json:"vulnerabilityId,omitempty"`
	VulnerablePackages []VulnedPkg  `json:"vulnerablePackages,omitempty"`
	ReferenceUrls      []string     `json:"referenceUrls,omitempty"`
	Cvss               []CvssRecord `json:"cvss,omitempty"`
}

// VulnedPkg identifies one vulnerable package.
type VulnedPkg struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// CvssRecord is a single CVSS score entry.
type CvssRecord struct {
	BaseScore float64 `json:"baseScore,omitempty"`
	Version   string  `json:"version,omitempty"`
}

// Remediation carries the scanner's own remediation pointer.
type Remediation struct {
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// Recommendation is the scanner's remediation recommendation.
type Recommendation struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"Url,omitempty"`
}

// NormalizedFinding is the canonical record every downstream stage consumes.
// FindingID and ResourceID are never empty; optional fields hold the
// "unknown" sentinel instead of being omitted, so formatting is total.
type NormalizedFinding struct {
	FindingID       string
	Severity        Severity
	Status          string
	Title           string
	Description     string
	FindingType     string
	ResourceID      string
	ResourceType    string
	Platform        string
	Account         string
	Region          string
	VulnerabilityID string
	PackageName     string
	PackageVersion  string
	RecommendedURL  string
}
