package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Store(ctx, "transcripts/stream-1.json", []byte(`[]`)))
	require.NoError(t, s.Store(ctx, "transcripts/stream-2.json", []byte(`[1]`)))
	require.NoError(t, s.Store(ctx, "other/notes.txt", []byte("x")))

	data, err := s.Retrieve(ctx, "transcripts/stream-2.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), data)

	names, err := s.List(ctx, "transcripts/")
	require.NoError(t, err)
	assert.Equal(t, []string{"transcripts/stream-1.json", "transcripts/stream-2.json"}, names)

	require.NoError(t, s.Delete(ctx, "transcripts/stream-1.json"))
	_, err = s.Retrieve(ctx, "transcripts/stream-1.json")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "transcripts/stream-1.json"), ErrNotFound)
}

func TestLocalStorage_NamesStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	require.NoError(t, s.Store(ctx, "../../escape.json", []byte("{}")))

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"escape.json"}, names)

	assert.Error(t, s.Store(ctx, "/", []byte("{}")))
}

func TestNewLocalStorage_RequiresRoot(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}
