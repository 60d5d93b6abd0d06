package models

// BankGroup is a specialized banking department a submission can be routed
// to. Groups are fixed reference data: the confidence percentage is a
// static display ranking, not a computed score.
type BankGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Specialties []string `json:"specialties"`
	Confidence  int      `json:"confidence"`
	Icon        string   `json:"icon,omitempty"`
}

// Catalog team identifiers.
const (
	TeamFundFinance    = "fund-finance"
	TeamCashManagement = "cash-management"
	TeamMAFinance      = "m&a-finance"
	TeamRealEstate     = "real-estate"
	TeamCapitalMarkets = "capital-markets"
	TeamTradeFinance   = "trade-finance"
	TeamGeneralBanking = "general-banking"
)

// AllBankGroups is the full browseable catalog. Note that capital-markets
// and trade-finance are browse-only: the classifier has no keyword rules
// for them and never suggests them.
func AllBankGroups() []BankGroup {
	return []BankGroup{
		{
			ID:          TeamFundFinance,
			Name:        "Fund Finance Solutions",
			Description: "Specialized in private equity fund financing, subscription lines of credit, and fund-level debt solutions.",
			Specialties: []string{"Subscription Lines of Credit", "Fund-Level Financing", "Private Equity Support"},
			Confidence:  95,
		},
		{
			ID:          TeamCashManagement,
			Name:        "Cash Management & Treasury",
			Description: "Comprehensive cash management solutions, liquidity optimization, and treasury services.",
			Specialties: []string{"Liquidity Management", "Cash Flow Optimization", "Treasury Services"},
			Confidence:  88,
		},
		{
			ID:          TeamMAFinance,
			Name:        "M&A Finance",
			Description: "Financing solutions for mergers, acquisitions, and leveraged buyouts.",
			Specialties: []string{"Acquisition Financing", "Leveraged Buyouts", "M&A Advisory"},
			Confidence:  73,
		},
		{
			ID:          TeamRealEstate,
			Name:        "Real Estate Finance",
			Description: "Real estate financing, REIT support, and property investment solutions.",
			Specialties: []string{"Real Estate Financing", "REIT Support", "Property Investment"},
			Confidence:  70,
		},
		{
			ID:          TeamCapitalMarkets,
			Name:        "Capital Markets",
			Description: "Debt capital markets, syndicated loans, and structured finance solutions.",
			Specialties: []string{"Debt Capital Markets", "Syndicated Loans", "Structured Finance"},
			Confidence:  68,
		},
		{
			ID:          TeamTradeFinance,
			Name:        "Trade Finance",
			Description: "International trade financing, letters of credit, and supply chain solutions.",
			Specialties: []string{"Trade Finance", "Letters of Credit", "Supply Chain Finance"},
			Confidence:  64,
		},
	}
}

// GeneralBankingGroup is the fallback suggestion when no keyword rule
// matches a client description.
func GeneralBankingGroup() BankGroup {
	return BankGroup{
		ID:          TeamGeneralBanking,
		Name:        "General Banking Solutions",
		Description: "Comprehensive banking services for various business needs.",
		Specialties: []string{"General Banking", "Business Services", "Financial Solutions"},
		Confidence:  68,
	}
}

// BankGroupByID looks up a catalog team (including the fallback) by
// identifier.
func BankGroupByID(id string) (BankGroup, bool) {
	if id == TeamGeneralBanking {
		return GeneralBankingGroup(), true
	}
	for _, group := range AllBankGroups() {
		if group.ID == id {
			return group, true
		}
	}
	return BankGroup{}, false
}
