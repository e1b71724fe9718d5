package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesync/internal/models"
)

// mockREST implements supabase.RESTClient.
type mockREST struct {
	rpcFn string
}

func (m *mockREST) Upsert(context.Context, string, any) error { return nil }

func (m *mockREST) Select(context.Context, string, string, any) error { return nil }

func (m *mockREST) RPC(_ context.Context, fn string, args any, out any) error {
	m.rpcFn = fn

	matches, ok := out.(*[]models.Match)
	if !ok {
		return errors.New("unexpected out type")
	}

	*matches = []models.Match{{URL: "https://example.org/a", Content: "text", Score: 0.88}}

	return nil
}

type fixedEmbedder struct {
	err error
}

func (f *fixedEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}

	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}

	return vectors, nil
}

func TestSearcher_Search(t *testing.T) {
	client := &mockREST{}
	s := NewSearcher(client, &fixedEmbedder{})

	matches, err := s.Search(context.Background(), "student life", 0)
	require.NoError(t, err)

	assert.Equal(t, "match_chunks", client.rpcFn)
	require.Len(t, matches, 1)
	assert.InDelta(t, 0.88, matches[0].Score, 1e-9)
}

func TestSearcher_EmbedderError(t *testing.T) {
	s := NewSearcher(&mockREST{}, &fixedEmbedder{err: errors.New("down")})

	_, err := s.Search(context.Background(), "query", 5)
	require.Error(t, err)
}
