// Package models defines data structures shared by the crawler, migrator and embedder.
package models

// Page represents one crawled page as stored in the pages table.
// URL is the primary key in both the local and the hosted store.
type Page struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Markdown  string `json:"markdown"`
	CrawledAt int64  `json:"crawled_at"`
}

// Chunk is a slice of a page's markdown with its embedding vector,
// keyed on (url, chunk_idx) in the hosted store.
type Chunk struct {
	URL       string    `json:"url"`
	ChunkIdx  int       `json:"chunk_idx"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// Match is one row returned by the similarity-search RPC.
type Match struct {
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
