package handlers

import (
	"github.com/bankportal/portal-backend/services"
	"github.com/bankportal/portal-backend/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	Service *services.AnalysisService
}

func NewAnalysisHandler(service *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{Service: service}
}

// AnalyzePDF handles POST /api/analyze-pdf. The endpoint is deliberately
// open: no authentication, no rate limiting, no idempotency key.
func (h *AnalysisHandler) AnalyzePDF(c *fiber.Ctx) error {
	type Request struct {
		DocumentName    string `json:"documentName"`
		DocumentContent string `json:"documentContent"`
		SystemPrompt    string `json:"systemPrompt"`
	}

	requestID := uuid.NewString()
	logger := logrus.WithFields(logrus.Fields{
		"handler":    "AnalysisHandler",
		"request_id": requestID,
	})

	var req Request
	if err := c.BodyParser(&req); err != nil {
		// An unreadable body has no documentContent either way.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document content is required",
		})
	}

	if req.DocumentContent == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document content is required",
		})
	}

	result, err := h.Service.Analyze(c.Context(), req.DocumentName, req.DocumentContent, req.SystemPrompt)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"document": req.DocumentName,
			"category": shared.CategoryOf(err),
			"error":    err,
		}).Error("PDF analysis failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logger.WithFields(logrus.Fields{
		"document":    req.DocumentName,
		"tokens_used": result.TokensUsed,
	}).Info("PDF analysis served")

	return c.JSON(fiber.Map{
		"success":      true,
		"analysis":     result.Analysis,
		"documentName": req.DocumentName,
		"tokensUsed":   result.TokensUsed,
	})
}
