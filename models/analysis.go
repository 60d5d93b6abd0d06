package models

// RiskSeverity grades an individual finding or the overall document.
type RiskSeverity string

const (
	RiskSeverityLow      RiskSeverity = "low"
	RiskSeverityMedium   RiskSeverity = "medium"
	RiskSeverityHigh     RiskSeverity = "high"
	RiskSeverityCritical RiskSeverity = "critical"
)

// RiskItem is a single finding inside one of the three risk buckets.
// ExactText carries the quoted source passage the finding is based on.
type RiskItem struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Severity      RiskSeverity `json:"severity"`
	ExactText     string       `json:"exactText"`
	PageReference string       `json:"pageReference,omitempty"`
}

// RiskSummary rolls the buckets up into a single document-level view.
type RiskSummary struct {
	OverallRiskLevel RiskSeverity `json:"overallRiskLevel"`
	KeyConcerns      []string     `json:"keyConcerns"`
	Recommendations  []string     `json:"recommendations"`
}

// RiskAnalysis is the model-generated categorization of a document's risks.
// It is transient view state: analyses are returned to the caller and never
// written to the state store.
type RiskAnalysis struct {
	RegulatoryLegalRisks []RiskItem  `json:"regulatoryLegalRisks"`
	InvestmentRisks      []RiskItem  `json:"investmentRisks"`
	PotentialDownsides   []RiskItem  `json:"potentialDownsides"`
	Summary              RiskSummary `json:"summary"`
}
