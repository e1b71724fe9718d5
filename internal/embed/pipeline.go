package embed

import (
	"context"
	"strings"

	"pagesync/internal/logger"
	"pagesync/internal/models"
)

// DefaultPageBatchSize is the number of pages whose chunks are grouped into
// one upsert call.
const DefaultPageBatchSize = 10

// PageSource yields the pages to embed.
type PageSource interface {
	FetchPages(ctx context.Context) ([]models.Page, error)
}

// ChunkWriter stores embedded chunks.
type ChunkWriter interface {
	UpsertChunks(ctx context.Context, chunks []models.Chunk) error
}

// Splitter partitions markdown into chunk texts.
type Splitter interface {
	Split(text string) []string
}

// Result reports the outcome of one embedding run.
type Result struct {
	PagesProcessed  int
	PagesSkipped    int
	ChunksSucceeded int
	ChunksFailed    int
}

// Pipeline fetches pages, chunks their markdown, embeds each chunk and
// upserts the chunk rows keyed on (url, chunk_idx).
type Pipeline struct {
	source        PageSource
	writer        ChunkWriter
	embedder      Embedder
	splitter      Splitter
	logger        *logger.Logger
	pageBatchSize int
}

// NewPipeline creates an embedding pipeline. A non-positive page batch size
// falls back to DefaultPageBatchSize.
func NewPipeline(source PageSource, writer ChunkWriter, embedder Embedder,
	splitter Splitter, pageBatchSize int, log *logger.Logger) *Pipeline {
	if pageBatchSize <= 0 {
		pageBatchSize = DefaultPageBatchSize
	}

	return &Pipeline{
		source:        source,
		writer:        writer,
		embedder:      embedder,
		splitter:      splitter,
		pageBatchSize: pageBatchSize,
		logger:        log,
	}
}

// Run processes every page. Pages without markdown are skipped; a failed
// embedding or upsert is counted per chunk batch and the run continues.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	result := Result{}

	pages, err := p.source.FetchPages(ctx)
	if err != nil {
		return result, err
	}

	p.logger.Info("fetched pages for embedding", "count", len(pages))

	for offset := 0; offset < len(pages); offset += p.pageBatchSize {
		end := offset + p.pageBatchSize
		if end > len(pages) {
			end = len(pages)
		}

		var batchChunks []models.Chunk

		for _, page := range pages[offset:end] {
			chunks, ok := p.processPage(ctx, page, &result)
			if !ok {
				continue
			}

			batchChunks = append(batchChunks, chunks...)
		}

		if len(batchChunks) == 0 {
			continue
		}

		if err := p.writer.UpsertChunks(ctx, batchChunks); err != nil {
			result.ChunksFailed += len(batchChunks)
			p.logger.Error("chunk upsert failed", "chunks", len(batchChunks), "error", err)

			continue
		}

		result.ChunksSucceeded += len(batchChunks)
		p.logger.Info("chunk batch upserted", "chunks", len(batchChunks))
	}

	return result, nil
}

// processPage splits and embeds one page. Returns false if the page was
// skipped or its embedding failed.
func (p *Pipeline) processPage(ctx context.Context, page models.Page, result *Result) ([]models.Chunk, bool) {
	if strings.TrimSpace(page.Markdown) == "" {
		result.PagesSkipped++
		p.logger.Debug("skipping page without markdown", "url", page.URL)

		return nil, false
	}

	texts := p.splitter.Split(page.Markdown)
	if len(texts) == 0 {
		result.PagesSkipped++

		return nil, false
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		result.ChunksFailed += len(texts)
		p.logger.Error("embedding failed", "url", page.URL, "chunks", len(texts), "error", err)

		return nil, false
	}

	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.Chunk{
			URL:       page.URL,
			ChunkIdx:  i,
			Content:   text,
			Embedding: vectors[i],
		}
	}

	result.PagesProcessed++
	p.logger.Debug("page chunked", "url", page.URL, "chunks", len(chunks))

	return chunks, true
}
