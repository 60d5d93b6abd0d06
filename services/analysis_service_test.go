package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bankportal/portal-backend/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatCompleter replays a canned upstream response and records the last
// request for inspection.
type fakeChatCompleter struct {
	response    openai.ChatCompletionResponse
	err         error
	lastRequest openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(_ context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastRequest = request
	return f.response, f.err
}

func chatResponse(content string, tokens int) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
		Usage: openai.Usage{TotalTokens: tokens},
	}
}

const validAnalysisJSON = `{
	"regulatoryLegalRisks": [
		{
			"title": "Unregistered offering",
			"description": "Securities may not be registered.",
			"severity": "high",
			"exactText": "the interests have not been registered",
			"pageReference": "Page 4"
		}
	],
	"investmentRisks": [
		{
			"title": "Concentration",
			"description": "Single-sector exposure.",
			"severity": "medium",
			"exactText": "the fund invests primarily in one sector"
		}
	],
	"potentialDownsides": [],
	"summary": {
		"overallRiskLevel": "high",
		"keyConcerns": ["Registration status"],
		"recommendations": ["Obtain legal review"]
	}
}`

func TestAnalyzeParsesValidResponse(t *testing.T) {
	fake := &fakeChatCompleter{response: chatResponse(validAnalysisJSON, 1234)}
	service := NewAnalysisService(fake, "gpt-4o-mini", 100000)

	result, err := service.Analyze(context.Background(), "fund-terms.pdf", "Document body", "You are a risk analyst.")
	require.NoError(t, err)

	assert.Equal(t, 1234, result.TokensUsed)
	require.Len(t, result.Analysis.RegulatoryLegalRisks, 1)
	assert.Equal(t, models.RiskSeverityHigh, result.Analysis.RegulatoryLegalRisks[0].Severity)
	assert.Equal(t, "Page 4", result.Analysis.RegulatoryLegalRisks[0].PageReference)
	assert.Equal(t, models.RiskSeverityHigh, result.Analysis.Summary.OverallRiskLevel)
	assert.Empty(t, result.Analysis.PotentialDownsides)
}

func TestAnalyzeSendsExpectedUpstreamRequest(t *testing.T) {
	fake := &fakeChatCompleter{response: chatResponse(validAnalysisJSON, 1)}
	service := NewAnalysisService(fake, "gpt-4o-mini", 100000)

	_, err := service.Analyze(context.Background(), "fund-terms.pdf", "Document body", "System instructions")
	require.NoError(t, err)

	request := fake.lastRequest
	assert.Equal(t, "gpt-4o-mini", request.Model)
	require.Len(t, request.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, request.Messages[0].Role)
	assert.Equal(t, "System instructions", request.Messages[0].Content)
	assert.Contains(t, request.Messages[1].Content, `"fund-terms.pdf"`)
	assert.Contains(t, request.Messages[1].Content, "Document body")
	assert.InDelta(t, 0.1, request.Temperature, 0.001)
	assert.Equal(t, 4000, request.MaxTokens)
	require.NotNil(t, request.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, request.ResponseFormat.Type)
}

func TestAnalyzeTruncatesOversizedContent(t *testing.T) {
	fake := &fakeChatCompleter{response: chatResponse(validAnalysisJSON, 1)}
	service := NewAnalysisService(fake, "gpt-4o-mini", 10)

	_, err := service.Analyze(context.Background(), "big.pdf", strings.Repeat("a", 50), "prompt")
	require.NoError(t, err)

	userMessage := fake.lastRequest.Messages[1].Content
	assert.Contains(t, userMessage, strings.Repeat("a", 10)+"\n\n[Content truncated due to length]")
	assert.NotContains(t, userMessage, strings.Repeat("a", 11))
}

func TestAnalyzeWithoutClientReturnsConfigurationError(t *testing.T) {
	service := NewAnalysisService(nil, "gpt-4o-mini", 100000)

	_, err := service.Analyze(context.Background(), "doc.pdf", "content", "prompt")
	require.Error(t, err)
	assert.Equal(t, "OpenAI API key not configured", err.Error())
}

func TestAnalyzeRejectsNonJSONResponse(t *testing.T) {
	fake := &fakeChatCompleter{response: chatResponse("I could not produce JSON, sorry.", 10)}
	service := NewAnalysisService(fake, "gpt-4o-mini", 100000)

	_, err := service.Analyze(context.Background(), "doc.pdf", "content", "prompt")
	require.Error(t, err)
	assert.Equal(t, "invalid JSON response from AI analysis", err.Error())
}

func TestAnalyzeReportsMissingFieldsByName(t *testing.T) {
	// summary omitted entirely, potentialDownsides explicitly null.
	partial := `{
		"regulatoryLegalRisks": [],
		"investmentRisks": [],
		"potentialDownsides": null
	}`
	fake := &fakeChatCompleter{response: chatResponse(partial, 10)}
	service := NewAnalysisService(fake, "gpt-4o-mini", 100000)

	_, err := service.Analyze(context.Background(), "doc.pdf", "content", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields in AI response")
	assert.Contains(t, err.Error(), "potentialDownsides")
	assert.Contains(t, err.Error(), "summary")
	assert.NotContains(t, err.Error(), "regulatoryLegalRisks")
}

func TestAnalyzeEmptyChoiceIsAnError(t *testing.T) {
	fake := &fakeChatCompleter{response: openai.ChatCompletionResponse{}}
	service := NewAnalysisService(fake, "gpt-4o-mini", 100000)

	_, err := service.Analyze(context.Background(), "doc.pdf", "content", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response content")
}

func TestAnalyzePropagatesUpstreamFailure(t *testing.T) {
	fake := &fakeChatCompleter{err: errors.New("connection reset")}
	service := NewAnalysisService(fake, "gpt-4o-mini", 100000)

	_, err := service.Analyze(context.Background(), "doc.pdf", "content", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
