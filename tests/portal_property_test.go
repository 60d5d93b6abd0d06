package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/bankportal/portal-backend/database"
	"github.com/bankportal/portal-backend/models"
	"github.com/bankportal/portal-backend/services"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// PortalPropertyTestSuite provides property-based testing over the portal
// services using only public interfaces.
type PortalPropertyTestSuite struct {
	store             *database.StateStore
	submissionService *services.SubmissionService
	classifier        *services.TeamClassifier
}

// SetupPortalPropertyTestSuite initializes the property test environment
// on an in-memory state store.
func SetupPortalPropertyTestSuite(t *testing.T) *PortalPropertyTestSuite {
	store, err := database.Open(":memory:", "")
	if err != nil {
		t.Fatalf("failed to open in-memory state store: %v", err)
	}

	return &PortalPropertyTestSuite{
		store:             store,
		submissionService: services.NewSubmissionService(store),
		classifier:        services.NewTeamClassifier(),
	}
}

// TeardownPortalPropertyTestSuite cleans up the property test environment
func (suite *PortalPropertyTestSuite) TeardownPortalPropertyTestSuite() {
	if suite.store != nil {
		suite.store.Close()
	}
}

// classifierKeywords maps every rule keyword to the team it should produce.
var classifierKeywords = map[string]string{
	"fund":              models.TeamFundFinance,
	"private equity":    models.TeamFundFinance,
	"subscription line": models.TeamFundFinance,
	"liquidity":         models.TeamCashManagement,
	"working capital":   models.TeamCashManagement,
	"cash management":   models.TeamCashManagement,
	"acquisition":       models.TeamMAFinance,
	"m&a":               models.TeamMAFinance,
	"buyout":            models.TeamMAFinance,
	"real estate":       models.TeamRealEstate,
	"property":          models.TeamRealEstate,
	"reit":              models.TeamRealEstate,
}

func containsAnyKeyword(description string) bool {
	lowered := strings.ToLower(description)
	for keyword := range classifierKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// TestClassifierProperties checks the classifier's structural invariants
// over arbitrary descriptions.
func TestClassifierProperties(t *testing.T) {
	suite := SetupPortalPropertyTestSuite(t)
	defer suite.TeardownPortalPropertyTestSuite()

	properties := gopter.NewProperties(nil)

	properties.Property("Every description yields at least one suggestion and a stable recommendation", prop.ForAll(
		func(description string) bool {
			first := suite.classifier.Suggest(description)
			second := suite.classifier.Suggest(description)

			if len(first) == 0 || len(second) == 0 {
				return false
			}
			if first[0].ID != second[0].ID {
				return false
			}
			// Confidence is a display percentage.
			for _, group := range first {
				if group.Confidence < 0 || group.Confidence > 100 {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("Descriptions without rule keywords fall back to general banking at 68", prop.ForAll(
		func(description string) bool {
			if containsAnyKeyword(description) {
				return true // Skip descriptions that happen to contain a keyword
			}
			suggestions := suite.classifier.Suggest(description)
			return len(suggestions) == 1 &&
				suggestions[0].ID == models.TeamGeneralBanking &&
				suggestions[0].Confidence == 68
		},
		gen.AnyString(),
	))

	properties.Property("Embedding a keyword anywhere produces its team", prop.ForAll(
		func(prefix, suffix string, keywordIndex int) bool {
			keywords := make([]string, 0, len(classifierKeywords))
			for keyword := range classifierKeywords {
				keywords = append(keywords, keyword)
			}
			keyword := keywords[keywordIndex%len(keywords)]
			expectedTeam := classifierKeywords[keyword]

			description := prefix + " " + keyword + " " + suffix
			for _, group := range suite.classifier.Suggest(description) {
				if group.ID == expectedTeam {
					return true
				}
			}
			return false
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// TestSubmissionStoreRoundTripProperties checks that append followed by
// load preserves the appended record at the head of the list.
func TestSubmissionStoreRoundTripProperties(t *testing.T) {
	suite := SetupPortalPropertyTestSuite(t)
	defer suite.TeardownPortalPropertyTestSuite()

	properties := gopter.NewProperties(nil)

	properties.Property("Appended task submissions round-trip at the head of the list", prop.ForAll(
		func(brief, company, contact, email string) bool {
			// Skip empty required fields
			if company == "" || contact == "" || email == "" {
				return true
			}

			group, _ := models.BankGroupByID(models.TeamGeneralBanking)
			submission := &models.TaskSubmission{
				BriefDescription: brief,
				SelectedGroup:    group,
				ContactPerson:    contact,
				ContactEmail:     email,
				CompanyName:      company,
			}

			ctx := context.Background()
			if err := suite.submissionService.AppendTask(ctx, submission); err != nil {
				return false
			}

			loaded, err := suite.submissionService.LoadTasks(ctx)
			if err != nil || len(loaded) == 0 {
				return false
			}

			head := loaded[0]
			return head.ID == submission.ID &&
				head.BriefDescription == brief &&
				head.CompanyName == company &&
				head.ContactPerson == contact &&
				head.ContactEmail == email &&
				head.Status == models.TaskStatusPending &&
				head.SubmittedAt.Equal(submission.SubmittedAt)
		},
		gen.AnyString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("Status updates touch exactly the targeted record", prop.ForAll(
		func(note string) bool {
			ctx := context.Background()

			group, _ := models.BankGroupByID(models.TeamCashManagement)
			target := &models.TaskSubmission{
				BriefDescription: "target",
				SelectedGroup:    group,
				ContactPerson:    "a",
				ContactEmail:     "a@example.com",
				CompanyName:      "A",
			}
			other := &models.TaskSubmission{
				BriefDescription: "other",
				SelectedGroup:    group,
				ContactPerson:    "b",
				ContactEmail:     "b@example.com",
				CompanyName:      "B",
			}
			if err := suite.submissionService.AppendTask(ctx, target); err != nil {
				return false
			}
			if err := suite.submissionService.AppendTask(ctx, other); err != nil {
				return false
			}

			updated, err := suite.submissionService.UpdateTaskStatus(ctx, target.ID, models.TaskStatusReviewed, note)
			if err != nil {
				return false
			}

			matches := 0
			for _, record := range updated {
				if record.ID == target.ID {
					matches++
					if record.Status != models.TaskStatusReviewed {
						return false
					}
					if note != "" && record.EmployeeNotes != note {
						return false
					}
				} else if record.ID == other.ID {
					if record.Status != models.TaskStatusPending {
						return false
					}
				}
			}
			return matches == 1
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
