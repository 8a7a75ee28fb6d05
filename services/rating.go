package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/koreasuan/rainmaker-api/models"
)

// ============================================================================
// RATING SUGGESTER - AI grade suggestions for unrated announcements
// ============================================================================
// The sheet carries AI_Rating/AI_Reason columns filled by an offline pipeline.
// This service lets a manager ask for a grade on demand; the suggestion is
// returned to the caller, never written to the store by this side.

type RatingSuggester struct {
	apiKey string
	model  string
}

// RatingSuggestion is the model's verdict for one announcement.
type RatingSuggestion struct {
	Rating string `json:"rating"`
	Reason string `json:"reason"`
}

// NewRatingSuggester returns nil when no API key is configured.
func NewRatingSuggester(apiKey, model string) *RatingSuggester {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	return &RatingSuggester{apiKey: apiKey, model: model}
}

const ratingSystemPrompt = `You grade Korean public procurement announcements for a water-infrastructure sales team.
Grades: S (must pursue), A (strong fit), B (marginal), C (skip).
Answer with a single JSON object: {"rating": "S|A|B|C", "reason": "<one Korean sentence>"}. No other text.`

// Suggest asks the model to grade one announcement.
func (s *RatingSuggester) Suggest(ctx context.Context, rec models.CanonicalRecord) (RatingSuggestion, error) {
	client := anthropic.NewClient(option.WithAPIKey(s.apiKey))

	userPrompt := fmt.Sprintf("공고명: %s\n발주처: %s\n공고일: %s", rec.Title, rec.Counterparty, rec.Date)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: ratingSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return RatingSuggestion{}, fmt.Errorf("anthropic request: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return RatingSuggestion{}, fmt.Errorf("no text content in model response")
	}

	return parseRatingSuggestion(text)
}

// parseRatingSuggestion extracts the JSON verdict, tolerating fenced or
// prefixed output, and validates the grade against the closed set.
func parseRatingSuggestion(text string) (RatingSuggestion, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return RatingSuggestion{}, fmt.Errorf("no JSON object in model response")
	}

	var suggestion RatingSuggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &suggestion); err != nil {
		return RatingSuggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}

	suggestion.Rating = strings.TrimSpace(suggestion.Rating)
	switch suggestion.Rating {
	case "S", "A", "B", "C":
		return suggestion, nil
	}
	return RatingSuggestion{}, fmt.Errorf("model returned grade %q outside S/A/B/C", suggestion.Rating)
}
