package services

import (
	"strings"

	"github.com/bankportal/portal-backend/models"
	"github.com/sirupsen/logrus"
)

// keywordRule binds a keyword group to the catalog team it suggests. Rules
// are evaluated in declaration order and independently: a description can
// match several groups and every matching team is suggested.
type keywordRule struct {
	keywords []string
	teamID   string
}

// TeamClassifier suggests bank teams for a free-text client description by
// substring keyword matching. Confidence scores come straight from the
// catalog; they are display ranking, not match quality.
//
// The rule table covers four of the six catalog teams. Capital Markets and
// Trade Finance are intentionally absent: they are reachable only by
// browsing the full catalog.
type TeamClassifier struct {
	rules []keywordRule
}

// NewTeamClassifier creates a classifier with the fixed rule table.
func NewTeamClassifier() *TeamClassifier {
	return &TeamClassifier{
		rules: []keywordRule{
			{keywords: []string{"fund", "private equity", "subscription line"}, teamID: models.TeamFundFinance},
			{keywords: []string{"liquidity", "working capital", "cash management"}, teamID: models.TeamCashManagement},
			{keywords: []string{"acquisition", "m&a", "buyout"}, teamID: models.TeamMAFinance},
			{keywords: []string{"real estate", "property", "reit"}, teamID: models.TeamRealEstate},
		},
	}
}

// Suggest returns the matching teams in rule priority order. The first
// element is the pre-selected default recommendation. When nothing matches,
// the single-element fallback is General Banking Solutions.
func (tc *TeamClassifier) Suggest(briefDescription string) []models.BankGroup {
	description := strings.ToLower(briefDescription)

	var suggested []models.BankGroup
	for _, rule := range tc.rules {
		if !rule.matches(description) {
			continue
		}
		if group, ok := models.BankGroupByID(rule.teamID); ok {
			suggested = append(suggested, group)
		}
	}

	if len(suggested) == 0 {
		suggested = []models.BankGroup{models.GeneralBankingGroup()}
	}

	logrus.WithFields(logrus.Fields{
		"service_name": "TeamClassifier",
		"matches":      len(suggested),
		"recommended":  suggested[0].ID,
	}).Debug("Classified client description")

	return suggested
}

func (r keywordRule) matches(description string) bool {
	for _, keyword := range r.keywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}
	return false
}
