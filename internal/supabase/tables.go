package supabase

import (
	"context"

	"pagesync/internal/models"
)

// PagesTable provides typed access to the hosted pages table.
type PagesTable struct {
	client RESTClient
	name   string
}

// NewPagesTable creates a typed view over the named pages table.
func NewPagesTable(client RESTClient, name string) *PagesTable {
	return &PagesTable{client: client, name: name}
}

// UpsertPages writes pages keyed on url, overwriting existing rows.
func (t *PagesTable) UpsertPages(ctx context.Context, pages []models.Page) error {
	return t.client.Upsert(ctx, t.name, pages)
}

// FetchPages returns every page in the hosted table.
func (t *PagesTable) FetchPages(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	if err := t.client.Select(ctx, t.name, "url,title,markdown,crawled_at", &pages); err != nil {
		return nil, err
	}

	return pages, nil
}

// ChunksTable provides typed access to the hosted chunk-embedding table.
type ChunksTable struct {
	client RESTClient
	name   string
}

// NewChunksTable creates a typed view over the named chunks table.
func NewChunksTable(client RESTClient, name string) *ChunksTable {
	return &ChunksTable{client: client, name: name}
}

// UpsertChunks writes chunks keyed on (url, chunk_idx).
func (t *ChunksTable) UpsertChunks(ctx context.Context, chunks []models.Chunk) error {
	return t.client.Upsert(ctx, t.name, chunks)
}

// matchArgs mirrors the match_chunks SQL function signature.
type matchArgs struct {
	Q []float32 `json:"q"`
	K int       `json:"k"`
}

// MatchChunks runs the match_chunks similarity search for the query embedding.
func MatchChunks(ctx context.Context, client RESTClient, embedding []float32, topK int) ([]models.Match, error) {
	var matches []models.Match
	if err := client.RPC(ctx, "match_chunks", matchArgs{Q: embedding, K: topK}, &matches); err != nil {
		return nil, err
	}

	return matches, nil
}
