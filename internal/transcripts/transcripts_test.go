package transcripts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Array(t *testing.T) {
	input := `[
		{"id":"1","author":"Alice","text":"hello","timestamp":"2024-03-01T20:00:00Z","badges":["owner"],"profileImage":"https://img/a.png"},
		{"id":"2","author":"Bob","message":"hi","timestamp":1709323230000,"isSuperChat":true,"superChatAmount":"$2.00"},
		{"id":"","author":"Ghost","text":"no id","timestamp":"2024-03-01T20:00:00Z"},
		{"id":"4","author":"","text":"no author","timestamp":"2024-03-01T20:00:00Z"},
		{"id":"5","author":"Carl","text":"no time"},
		{"id":"6","author":"Dana","text":"bad time","timestamp":"yesterday"}
	]`

	messages, err := Decode(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Alice", messages[0].Author)
	assert.Equal(t, time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC), messages[0].Timestamp)
	assert.True(t, messages[0].HasBadge("Owner"))
	assert.Equal(t, "hi", messages[1].Text)
	assert.True(t, messages[1].IsSuperChat)
	assert.Equal(t, time.Date(2024, 3, 1, 20, 0, 30, 0, time.UTC), messages[1].Timestamp)
	assert.Equal(t, "", messages[1].ProfileImage)
}

func TestDecode_Envelope(t *testing.T) {
	input := `{"messages":[{"id":"1","author":"A","text":"x","timestamp":"1709323200"}]}`

	messages, err := Decode(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, time.Unix(1709323200, 0).UTC(), messages[0].Timestamp)
}

func TestDecode_NDJSON(t *testing.T) {
	input := `{"id":"1","author":"A","text":"x","timestamp":"2024-03-01T20:00:00Z"}
not json at all
{"id":"2","author":"B","text":"y","timestamp":"2024-03-01T20:00:05.5Z"}

`

	messages, err := Decode(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "2", messages[1].ID)
	assert.Equal(t, 500*time.Millisecond, messages[1].Timestamp.Sub(messages[0].Timestamp)-5*time.Second)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("   "))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode(strings.NewReader("id,author,text"))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("[{broken"))
	assert.Error(t, err)
}

func TestDecode_EmptyArray(t *testing.T) {
	messages, err := Decode(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}
