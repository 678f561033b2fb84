package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func chat(id, author, text string, offsetSeconds float64, badges ...string) models.Message {
	return models.Message{
		ID:        id,
		Author:    author,
		Text:      text,
		Timestamp: baseTime.Add(time.Duration(offsetSeconds * float64(time.Second))),
		Badges:    badges,
	}
}

// repeatAuthor builds n messages by author spaced ten minutes apart
func repeatAuthor(prefix, author string, n int, start float64) []models.Message {
	var msgs []models.Message
	for i := 0; i < n; i++ {
		msgs = append(msgs, chat(fmt.Sprintf("%s-%d", prefix, i), author, "hello there", start+float64(i)*600))
	}
	return msgs
}

func TestIdentifyHost(t *testing.T) {
	var crowd []models.Message
	for i := 0; i < 19; i++ {
		crowd = append(crowd, chat(fmt.Sprintf("c%d", i), fmt.Sprintf("viewer%d", i%4), "hi", float64(i)))
	}

	tests := []struct {
		name     string
		messages []models.Message
		manual   string
		expected string
	}{
		{
			name:     "Manual override wins",
			messages: append([]models.Message{chat("o", "Alice", "hi", 0, "owner")}, crowd...),
			manual:   "Streamer",
			expected: "Streamer",
		},
		{
			name:     "Owner badge regardless of frequency",
			messages: append(append([]models.Message{}, crowd...), chat("o", "Alice", "welcome", 30, "Owner")),
			expected: "Alice",
		},
		{
			name: "Active moderator accepted",
			messages: append(
				[]models.Message{chat("m", "Mod", "rules please", 0, "moderator")},
				repeatAuthor("mod", "Mod", 6, 10)...,
			),
			expected: "Mod",
		},
		{
			name: "One-off moderator rejected, falls back to most active",
			messages: append(
				[]models.Message{chat("m", "Mod", "rules please", 0, "moderator")},
				repeatAuthor("bob", "Bob", 6, 10)...,
			),
			expected: "Bob",
		},
		{
			name:     "No dominant author",
			messages: spreadAuthors(40),
			expected: models.UnknownHost,
		},
		{
			name:     "Empty input",
			messages: nil,
			expected: models.UnknownHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IdentifyHost(tt.messages, tt.manual))
		})
	}
}

// spreadAuthors gives every message a distinct author
func spreadAuthors(n int) []models.Message {
	var msgs []models.Message
	for i := 0; i < n; i++ {
		msgs = append(msgs, chat(fmt.Sprintf("s%d", i), fmt.Sprintf("user%d", i), "hey", float64(i)))
	}
	return msgs
}

func TestFlagHost(t *testing.T) {
	msgs := []models.Message{
		chat("1", "Alice", "hi", 0),
		chat("2", "Bob", "hello", 1),
	}

	flagged := FlagHost(msgs, "Alice")

	assert.True(t, flagged[0].IsHost)
	assert.False(t, flagged[1].IsHost)
	assert.False(t, msgs[0].IsHost, "input must not be modified")
	assert.Equal(t, msgs[0].Text, flagged[0].Text)
}

func TestFlagHost_UnknownHostFlagsNobody(t *testing.T) {
	msgs := []models.Message{chat("1", models.UnknownHost, "hi", 0)}
	assert.False(t, FlagHost(msgs, models.UnknownHost)[0].IsHost)
}
