// Package main provides the crawler command-line tool that fetches every
// URL in the list file and stores url|title|markdown|crawled_at rows in the
// local SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pagesync/internal/config"
	"pagesync/internal/crawler"
	"pagesync/internal/harvest"
	"pagesync/internal/logger"
	"pagesync/internal/models"
	"pagesync/internal/store"
)

func main() {
	configFile := flag.String("config", "configs/crawler.yaml", "Path to YAML configuration file")
	urlFile := flag.String("urls", "", "URL list file (overrides config)")
	dbPath := flag.String("db", "", "Local SQLite database path (overrides config)")

	flag.Parse()

	cfg, err := config.LoadCrawler(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *urlFile != "" {
		cfg.Source.URLFile = *urlFile
	}

	if *dbPath != "" {
		cfg.Output.DBPath = *dbPath
	}

	log := logger.NewLogger(cfg.Logging.Level)
	ctx := context.Background()

	urls, err := harvest.ReadURLFile(cfg.Source.URLFile)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	db, err := store.Open(cfg.Output.DBPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to open database: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(ctx); err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	log.Info("🕷️  Starting crawl", "pages", len(urls), "db", cfg.Output.DBPath)

	scraper := crawler.NewScraper(&cfg.Fetch)
	extractor := crawler.NewExtractor(cfg.Source.Root, &cfg.Extract)
	delay := cfg.Fetch.CrawlDelay()

	crawled := 0
	failed := 0

	for i, url := range urls {
		if err := crawlOne(ctx, scraper, extractor, db, url); err != nil {
			failed++
			log.Error("crawl failed", "url", url, "error", err)
		} else {
			crawled++
			log.Info("✓ crawled", "url", url)
		}

		if delay > 0 && i < len(urls)-1 {
			time.Sleep(delay)
		}
	}

	fmt.Printf("\n✓ Done: %d crawled, %d failed out of %d pages\n", crawled, failed, len(urls))
}

func crawlOne(ctx context.Context, scraper *crawler.Scraper, extractor *crawler.Extractor,
	db *store.Store, url string) error {
	html, err := scraper.Fetch(ctx, url)
	if err != nil {
		return err
	}

	title, markdown, err := extractor.Extract(html)
	if err != nil {
		return err
	}

	return db.UpsertPage(ctx, models.Page{
		URL:       url,
		Title:     title,
		Markdown:  markdown,
		CrawledAt: time.Now().Unix(),
	})
}
