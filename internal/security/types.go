package security

// Severity ranks an issue.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight returns a numeric severity rank for sorting and filtering.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category groups issues by scan type.
type Category string

const (
	CategorySecret        Category = "hardcoded_secret"
	CategoryDangerousCall Category = "dangerous_call"
	CategoryWeakCrypto    Category = "weak_crypto"
	CategoryVulnerableDep Category = "vulnerable_dependency"
)

// Issue is one security finding. Match is redacted; the raw value
// never leaves the scanner.
type Issue struct {
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Rule        string   `json:"rule"`
	Description string   `json:"description"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
	Match       string   `json:"match,omitempty"`
}

// Summary aggregates findings.
type Summary struct {
	Total         int              `json:"total"`
	BySeverity    map[Severity]int `json:"bySeverity,omitempty"`
	FilesAffected int              `json:"filesAffected"`
}

// Result is the security phase output.
type Result struct {
	Issues  []Issue `json:"issues"`
	Summary Summary `json:"summary"`
}
