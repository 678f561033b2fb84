// Package augment provides optional, best-effort topic themes from an LLM.
// Results only ever add clusters to an analysis; every failure is reported as
// an error for the caller to swallow.
package augment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/analysis"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
	"google.golang.org/genai"
)

var (
	// ErrDisabled is returned when no API key is configured
	ErrDisabled = errors.New("topic augmentation disabled: missing API key")
	// ErrNoThemes is returned when the model answered without usable themes
	ErrNoThemes = errors.New("model returned no themes")
)

const (
	defaultModel          = "gemini-2.5-flash"
	defaultPromptMessages = 300
	maxThemes             = 10
)

// contentGenerator is the part of the genai client used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAugmenter asks a Gemini model for the discussion themes of a chat
type GeminiAugmenter struct {
	models         contentGenerator
	model          string
	promptMessages int
}

// Ensure GeminiAugmenter implements analysis.ThemeSource
var _ analysis.ThemeSource = (*GeminiAugmenter)(nil)

// NewGeminiAugmenter creates a Gemini backed theme source
func NewGeminiAugmenter(ctx context.Context, apiKey, model string) (*GeminiAugmenter, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiAugmenter(client.Models, model), nil
}

func newGeminiAugmenter(gen contentGenerator, model string) *GeminiAugmenter {
	if model == "" {
		model = defaultModel
	}
	return &GeminiAugmenter{models: gen, model: model, promptMessages: defaultPromptMessages}
}

type themesPayload struct {
	Themes []models.Theme `json:"themes"`
}

// Themes returns up to ten themes discussed in messages
func (g *GeminiAugmenter) Themes(ctx context.Context, messages []models.Message) ([]models.Theme, error) {
	if len(messages) == 0 {
		return nil, ErrNoThemes
	}

	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
	}

	result, err := g.models.GenerateContent(ctx, g.model, genai.Text(g.buildPrompt(messages)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, ErrNoThemes
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	themes, err := parseThemes(text.String())
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Gemini suggested %d themes", len(themes))
	return themes, nil
}

func (g *GeminiAugmenter) buildPrompt(messages []models.Message) string {
	var b strings.Builder
	b.WriteString(`You analyze live stream chat. Identify the main discussion themes.
Respond with JSON only: {"themes":[{"topic":"short name","keywords":["lowercase words that appear in the chat"],"description":"one sentence"}]}
Return at most 10 themes. Keywords must be words or short phrases copied from the messages.

Messages:
`)
	for _, msg := range sample(messages, g.promptMessages) {
		fmt.Fprintf(&b, "%s: %s\n", msg.Author, strings.ReplaceAll(msg.Text, "\n", " "))
	}
	return b.String()
}

// sample keeps at most n messages spread evenly across the session
func sample(messages []models.Message, n int) []models.Message {
	if len(messages) <= n {
		return messages
	}
	out := make([]models.Message, 0, n)
	step := float64(len(messages)) / float64(n)
	for i := 0; i < n; i++ {
		out = append(out, messages[int(float64(i)*step)])
	}
	return out
}

// parseThemes accepts {"themes":[...]} or a bare array, optionally fenced
func parseThemes(raw string) ([]models.Theme, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoThemes
	}

	var themes []models.Theme
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &themes); err != nil {
			return nil, fmt.Errorf("failed to parse themes: %w", err)
		}
	} else {
		var payload themesPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, fmt.Errorf("failed to parse themes: %w", err)
		}
		themes = payload.Themes
	}

	if len(themes) == 0 {
		return nil, ErrNoThemes
	}
	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}
	return themes, nil
}
