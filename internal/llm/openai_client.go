package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mindtriage/mindtriage-api/internal/domain"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const systemPrompt = `You are a non-clinical wellbeing check-in assistant.

You receive aggregated signal statistics for a single user: their per-signal baseline over a trailing window and today's drift report (per-signal status, top changes, confidence, recommendations). You must base your conclusions only on the provided data.

Your goals:
- Describe how today's signals compare to the user's own baseline in clear, neutral language.
- Highlight the largest movements and whether they are within normal day-to-day variation.
- Reflect the report's confidence: when it is low, say the picture is uncertain.
- Offer gentle, behavioral suggestions consistent with the deterministic recommendations.

Rules:
- Do NOT provide medical advice, diagnoses, or risk assessments.
- Do NOT mention disorders, medication, doctors, therapy, or treatment.
- Never speculate beyond the numbers; the raw journal text is not available to you.
- If most signals are missing or gated, say the data is limited.
- Be concise, warm, and concrete.

You must respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences comparing today to the user's own baseline.",
  "observations": [
    "3-6 bullet points about individual signal movements.",
    "At least one item naming the largest change and its direction.",
    "If confidence is below 0.5, one item saying the picture is uncertain."
  ],
  "guidance": [
    "3-5 gentle, non-clinical suggestions tied to the observed movements.",
    "Stay consistent with the deterministic recommendations in the report."
  ]
}

No extra fields. No comments. No backticks.`

const userPromptTemplate = `Here is JSON describing this user's wellbeing signals.

- "baseline" holds per-signal mean/median/std over the trailing window; null values mean insufficient evidence for that signal.
- "report.drift" classifies each signal for today as up, down, stable or missing, with delta and z-score where available.
- "report.top_changes" lists the largest absolute movements.
- "report.confidence" is the report's overall confidence in [0.05, 0.95].
- "report.recommendations" are the deterministic suggestions already shown to the user.

JSON:

%s

Based on this data, respond in the required JSON format.`

// NarrativeLLM is the interface for writing the insight narrative.
type NarrativeLLM interface {
	// GenerateNarrative turns a computed drift report into prose.
	GenerateNarrative(ctx context.Context, insightCtx *domain.InsightContext) (*domain.LLMNarrativeOutput, error)
}

// OpenAIClient implements NarrativeLLM using the OpenAI API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for narrative generation.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// GenerateNarrative calls OpenAI to write the insight narrative.
func (c *OpenAIClient) GenerateNarrative(ctx context.Context, insightCtx *domain.InsightContext) (*domain.LLMNarrativeOutput, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(insightCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := resp.Choices[0].Message.Content

	var output domain.LLMNarrativeOutput
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}

	return &output, nil
}
