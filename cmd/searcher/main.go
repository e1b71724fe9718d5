// Package main provides the searcher command-line tool for running vector
// similarity queries against the hosted chunk table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"pagesync/internal/config"
	"pagesync/internal/embed"
	"pagesync/internal/logger"
	"pagesync/internal/search"
	"pagesync/internal/supabase"
)

const previewLength = 300

func main() {
	topK := flag.Int("k", search.DefaultTopK, "Number of matches to return")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")

	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Println("Usage: searcher [flags] <query>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logger.NewLogger(*logLevel)

	cfg := config.FromEnv()
	if err := cfg.ValidateEmbedding(); err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, log)
	embedder := embed.NewOpenAIEmbedder(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
	searcher := search.NewSearcher(client, embedder)

	matches, err := searcher.Search(context.Background(), query, *topK)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Search failed: %v", err))
		os.Exit(1)
	}

	if len(matches) == 0 {
		fmt.Println("No results found.")

		return
	}

	fmt.Printf("Top %d results for: %q\n", len(matches), query)

	for i, match := range matches {
		fmt.Printf("\n[%d] Score: %.4f\n", i+1, match.Score)
		fmt.Printf("URL: %s\n", match.URL)
		fmt.Println(strings.Repeat("-", 40))
		fmt.Println(preview(match.Content))
	}
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}

	return content[:previewLength] + "..."
}
