package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bankportal/portal-backend/models"
	"github.com/bankportal/portal-backend/shared"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// truncationMarker is appended whenever document content is cut to the
// configured character budget before being forwarded upstream.
const truncationMarker = "\n\n[Content truncated due to length]"

// requiredAnalysisFields are the top-level groupings every upstream
// response must contain, in the order they are reported when missing.
var requiredAnalysisFields = []string{
	"regulatoryLegalRisks",
	"investmentRisks",
	"potentialDownsides",
	"summary",
}

// ChatCompleter is the slice of the OpenAI client the analysis service
// uses. Tests substitute a fake upstream.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AnalysisResult pairs a parsed analysis with the upstream's token usage.
type AnalysisResult struct {
	Analysis   *models.RiskAnalysis
	TokensUsed int
}

// AnalysisService forwards extracted document text to the hosted model and
// validates the structured response. Results are transient: nothing here
// touches the state store.
type AnalysisService struct {
	client           ChatCompleter
	model            string
	maxDocumentChars int
	metrics          *shared.ServiceMetrics
}

// NewAnalysisService creates the gateway service. client may be nil when no
// credential is configured; Analyze then fails with a configuration error
// without calling out.
func NewAnalysisService(client ChatCompleter, model string, maxDocumentChars int) *AnalysisService {
	return &AnalysisService{
		client:           client,
		model:            model,
		maxDocumentChars: maxDocumentChars,
		metrics:          shared.NewServiceMetrics("AnalysisService"),
	}
}

// Metrics exposes the service's counters for registry wiring.
func (s *AnalysisService) Metrics() *shared.ServiceMetrics {
	return s.metrics
}

// Analyze runs one risk analysis round trip. The caller has already
// validated that documentContent is present.
func (s *AnalysisService) Analyze(ctx context.Context, documentName, documentContent, systemPrompt string) (*AnalysisResult, error) {
	start := time.Now()
	result, err := s.analyze(ctx, documentName, documentContent, systemPrompt)
	s.metrics.RecordRequest(err == nil, time.Since(start))
	return result, err
}

func (s *AnalysisService) analyze(ctx context.Context, documentName, documentContent, systemPrompt string) (*AnalysisResult, error) {
	if s.client == nil {
		return nil, shared.ConfigurationError("OpenAI API key not configured", "AnalysisService")
	}

	truncatedContent := documentContent
	if len(truncatedContent) > s.maxDocumentChars {
		truncatedContent = truncatedContent[:s.maxDocumentChars] + truncationMarker
		logrus.WithFields(logrus.Fields{
			"service_name":   "AnalysisService",
			"document":       documentName,
			"original_chars": len(documentContent),
			"budget_chars":   s.maxDocumentChars,
		}).Info("Document content truncated before analysis")
	}

	userMessage := fmt.Sprintf("Please analyze the following document: %q\n\nDocument content:\n%s", documentName, truncatedContent)

	response, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: 0.1,
		MaxTokens:   4000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "UPSTREAM_CALL", "AnalysisService", "analyze", true)
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return nil, shared.UpstreamFormatError("no response content received from AI analysis", "AnalysisService", "analyze", nil)
	}
	responseContent := response.Choices[0].Message.Content

	// First pass: field presence on the raw object, so a missing-field
	// report names exactly what the upstream omitted.
	var rawAnalysis map[string]json.RawMessage
	if err := json.Unmarshal([]byte(responseContent), &rawAnalysis); err != nil {
		logrus.WithFields(logrus.Fields{
			"service_name": "AnalysisService",
			"document":     documentName,
		}).Error("Failed to parse AI response as JSON")
		return nil, shared.UpstreamFormatError("invalid JSON response from AI analysis", "AnalysisService", "analyze", err)
	}

	var missingFields []string
	for _, field := range requiredAnalysisFields {
		value, present := rawAnalysis[field]
		if !present || string(value) == "null" {
			missingFields = append(missingFields, field)
		}
	}
	if len(missingFields) > 0 {
		return nil, shared.UpstreamFormatError(
			fmt.Sprintf("missing required fields in AI response: %s", strings.Join(missingFields, ", ")),
			"AnalysisService", "analyze", nil,
		)
	}

	var analysis models.RiskAnalysis
	if err := json.Unmarshal([]byte(responseContent), &analysis); err != nil {
		return nil, shared.UpstreamFormatError("invalid JSON response from AI analysis", "AnalysisService", "analyze", err)
	}

	logrus.WithFields(logrus.Fields{
		"service_name": "AnalysisService",
		"document":     documentName,
		"findings": len(analysis.RegulatoryLegalRisks) +
			len(analysis.InvestmentRisks) +
			len(analysis.PotentialDownsides),
		"tokens_used": response.Usage.TotalTokens,
	}).Info("Risk analysis completed")

	return &AnalysisResult{
		Analysis:   &analysis,
		TokensUsed: response.Usage.TotalTokens,
	}, nil
}
