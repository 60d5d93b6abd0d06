package handlers

import (
	"github.com/bankportal/portal-backend/models"
	"github.com/bankportal/portal-backend/services"
	"github.com/gofiber/fiber/v2"
)

type TeamHandler struct {
	Classifier *services.TeamClassifier
}

func NewTeamHandler(classifier *services.TeamClassifier) *TeamHandler {
	return &TeamHandler{Classifier: classifier}
}

// ListTeams handles GET /api/v1/teams and returns the full browseable
// catalog, including the two teams the classifier never suggests.
func (h *TeamHandler) ListTeams(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    models.AllBankGroups(),
	})
}

// SuggestTeams handles POST /api/v1/teams/suggest. The first suggestion is
// the pre-selected default recommendation.
func (h *TeamHandler) SuggestTeams(c *fiber.Ctx) error {
	type Request struct {
		BriefDescription string `json:"briefDescription"`
	}

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.BriefDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "briefDescription is required",
		})
	}

	suggestions := h.Classifier.Suggest(req.BriefDescription)

	return c.JSON(fiber.Map{
		"success":     true,
		"suggestions": suggestions,
		"recommended": suggestions[0],
	})
}
