package augment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// MockGenerator is a mock implementation of contentGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func sampleMessages() []models.Message {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	return []models.Message{
		{ID: "1", Author: "Bob", Text: "minecraft next", Timestamp: now},
		{ID: "2", Author: "Cara", Text: "yes minecraft\nplease", Timestamp: now.Add(time.Second)},
	}
}

func TestNewGeminiAugmenter_RequiresKey(t *testing.T) {
	aug, err := NewGeminiAugmenter(context.Background(), "", "")
	assert.Nil(t, aug)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestGeminiAugmenter_Themes(t *testing.T) {
	gen := &MockGenerator{}
	gen.On("GenerateContent", mock.Anything, "gemini-test", mock.Anything, mock.Anything).
		Return(textResponse(`{"themes":[{"topic":"Game choice","keywords":["minecraft"],"description":"Next game"}]}`), nil)
	aug := newGeminiAugmenter(gen, "gemini-test")

	themes, err := aug.Themes(context.Background(), sampleMessages())

	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, "Game choice", themes[0].Topic)
	assert.Equal(t, []string{"minecraft"}, themes[0].Keywords)

	call := gen.Calls[0]
	contents := call.Arguments.Get(2).([]*genai.Content)
	prompt := contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Bob: minecraft next")
	assert.Contains(t, prompt, "Cara: yes minecraft please")
	config := call.Arguments.Get(3).(*genai.GenerateContentConfig)
	assert.Equal(t, "application/json", config.ResponseMIMEType)
}

func TestGeminiAugmenter_DefaultModel(t *testing.T) {
	gen := &MockGenerator{}
	gen.On("GenerateContent", mock.Anything, defaultModel, mock.Anything, mock.Anything).
		Return(textResponse(`[{"topic":"a","keywords":["b"]}]`), nil)

	themes, err := newGeminiAugmenter(gen, "").Themes(context.Background(), sampleMessages())

	require.NoError(t, err)
	assert.Len(t, themes, 1)
	gen.AssertExpectations(t)
}

func TestGeminiAugmenter_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{"Request error", nil, errors.New("429 rate limit")},
		{"No candidates", &genai.GenerateContentResponse{}, nil},
		{"Not JSON", textResponse("I think people talk about games"), nil},
		{"Empty themes", textResponse(`{"themes":[]}`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &MockGenerator{}
			gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.resp, tt.err)

			themes, err := newGeminiAugmenter(gen, "m").Themes(context.Background(), sampleMessages())

			assert.Error(t, err)
			assert.Nil(t, themes)
		})
	}
}

func TestGeminiAugmenter_NoMessages(t *testing.T) {
	gen := &MockGenerator{}
	_, err := newGeminiAugmenter(gen, "m").Themes(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoThemes)
	gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestParseThemes(t *testing.T) {
	themes, err := parseThemes("```json\n{\"themes\":[{\"topic\":\"x\",\"keywords\":[\"y\"]}]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "x", themes[0].Topic)

	var many []string
	for i := 0; i < 14; i++ {
		many = append(many, fmt.Sprintf(`{"topic":"t%d","keywords":["k"]}`, i))
	}
	themes, err = parseThemes("[" + strings.Join(many, ",") + "]")
	require.NoError(t, err)
	assert.Len(t, themes, 10)

	_, err = parseThemes("   ")
	assert.ErrorIs(t, err, ErrNoThemes)
}

func TestSample(t *testing.T) {
	var msgs []models.Message
	for i := 0; i < 10; i++ {
		msgs = append(msgs, models.Message{ID: fmt.Sprint(i)})
	}

	assert.Len(t, sample(msgs, 20), 10)
	picked := sample(msgs, 5)
	require.Len(t, picked, 5)
	assert.Equal(t, "0", picked[0].ID)
	assert.Equal(t, "8", picked[4].ID)
}
