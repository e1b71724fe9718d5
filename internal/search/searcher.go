// Package search runs similarity queries against the hosted chunk table.
package search

import (
	"context"

	"pagesync/internal/embed"
	"pagesync/internal/models"
	"pagesync/internal/supabase"
)

// DefaultTopK is the number of matches returned unless overridden.
const DefaultTopK = 5

// Searcher embeds a query and asks the hosted store for the closest chunks.
type Searcher struct {
	client   supabase.RESTClient
	embedder embed.Embedder
}

// NewSearcher creates a searcher over the given store and embedder.
func NewSearcher(client supabase.RESTClient, embedder embed.Embedder) *Searcher {
	return &Searcher{client: client, embedder: embedder}
}

// Search returns the topK chunks most similar to the query text.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]models.Match, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	return supabase.MatchChunks(ctx, s.client, vectors[0], topK)
}
