package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "medscribe/internal/app/errors"
)

const codingSystem = "You are a medical coding specialist with expertise in ICD-10 and CPT codes."

const codingPrompt = `Analyze the following medical transcription and extract:
1. Suggested medical codes (ICD-10, CPT) with their descriptions
2. Detected medical conditions
3. Medications mentioned
4. A brief summary of the transcription

Format the response as a JSON object with these keys:
"suggested_codes", "detected_conditions", "medications", "summary"

Medical transcription:
%s`

const summarySystem = "You are a medical professional who creates concise summaries of patient encounters."

const summaryPrompt = `Summarize the following medical transcription in a concise but comprehensive way.
Include key medical findings, diagnoses, and treatment plans.

Medical transcription:
%s`

// codingKeys must all be present in a coding report; absent ones are
// backfilled with empty lists so clients can iterate without nil checks.
var codingKeys = []string{"suggested_codes", "detected_conditions", "medications", "summary"}

// Analyzer extracts medical coding reports and summaries from transcribed
// text through the OpenAI chat API.
type Analyzer struct {
	client       *openai.Client
	codingModel  string
	summaryModel string
}

// NewAnalyzer creates a chat-backed analyzer. Empty model names fall back
// to the defaults.
func NewAnalyzer(client *openai.Client, codingModel string, summaryModel string) *Analyzer {
	if codingModel == "" {
		codingModel = openai.GPT4
	}
	if summaryModel == "" {
		summaryModel = openai.GPT3Dot5Turbo
	}
	return &Analyzer{client: client, codingModel: codingModel, summaryModel: summaryModel}
}

// AnalyzeMedicalCoding extracts suggested ICD-10/CPT codes, conditions,
// medications and a short summary from a transcription. Blank input returns
// an empty report without calling the provider.
func (a *Analyzer) AnalyzeMedicalCoding(ctx context.Context, text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return map[string]any{
			"suggested_codes":     []any{},
			"detected_conditions": []any{},
			"medications":         []any{},
			"summary":             "",
		}, nil
	}

	request := openai.ChatCompletionRequest{
		Model:       a.codingModel,
		Temperature: 0.2,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: codingSystem},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(codingPrompt, text)},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrAnalysisService, err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrAnalysisService, "empty completion response")
	}

	var report map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Choices[0].Message.Content)), &report); err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrAnalysisService, fmt.Errorf("parse completion as JSON: %w", err))
	}
	for _, key := range codingKeys {
		if _, ok := report[key]; !ok {
			report[key] = []any{}
		}
	}
	return report, nil
}

// Summarize condenses a transcription into a short clinical summary. Blank
// input yields an empty summary without calling the provider.
func (a *Analyzer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	request := openai.ChatCompletionRequest{
		Model:       a.summaryModel,
		Temperature: 0.3,
		MaxTokens:   1000,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystem},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(summaryPrompt, text)},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", apperrors.WrapSentinel(apperrors.ErrAnalysisService, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap(apperrors.ErrAnalysisService, "empty completion response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", apperrors.Wrap(apperrors.ErrAnalysisService, "empty summary response")
	}
	return summary, nil
}
