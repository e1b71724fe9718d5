// Package main provides the embedder command-line tool that chunks hosted
// page content and upserts embedding vectors into the chunk table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pagesync/internal/chunker"
	"pagesync/internal/config"
	"pagesync/internal/embed"
	"pagesync/internal/logger"
	"pagesync/internal/report"
	"pagesync/internal/supabase"
)

func main() {
	pageBatch := flag.Int("page-batch", embed.DefaultPageBatchSize, "Pages processed per chunk upsert")
	targetTokens := flag.Int("target-tokens", chunker.DefaultTargetTokens, "Target tokens per chunk")
	maxTokens := flag.Int("max-tokens", chunker.DefaultMaxTokens, "Hard cap on tokens per chunk")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	log := logger.NewLogger(*logLevel)

	cfg := config.FromEnv()
	if err := cfg.ValidateEmbedding(); err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	splitter, err := chunker.NewSplitter(*targetTokens, *maxTokens)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, log)
	pipeline := embed.NewPipeline(
		supabase.NewPagesTable(client, cfg.PagesTable),
		supabase.NewChunksTable(client, cfg.ChunksTable),
		embed.NewOpenAIEmbedder(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel),
		splitter,
		*pageBatch,
		log,
	)

	result, err := pipeline.Run(context.Background())
	if err != nil {
		log.Error(fmt.Sprintf("❌ Embedding run failed: %v", err))
		os.Exit(1)
	}

	fmt.Print(report.Render("EMBEDDING GENERATION SUMMARY", [][2]string{
		{"Pages processed:", fmt.Sprintf("%d", result.PagesProcessed)},
		{"Pages skipped:", fmt.Sprintf("%d", result.PagesSkipped)},
		{"Chunks upserted:", fmt.Sprintf("%d", result.ChunksSucceeded)},
		{"Chunks failed:", fmt.Sprintf("%d", result.ChunksFailed)},
	}))

	if result.ChunksFailed > 0 {
		fmt.Println("\nWarning: some chunks failed to upsert. Re-run the embedder to retry.")
	}
}
