// Package main provides the harvester command-line tool that collects
// crawlable URLs from an HTML sitemap page into a URL list file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pagesync/internal/config"
	"pagesync/internal/crawler"
	"pagesync/internal/harvest"
	"pagesync/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	sitemap := flag.String("sitemap", "", "Sitemap page URL (overrides config)")
	root := flag.String("root", "", "Site root URL (overrides config)")
	output := flag.String("output", "", "Output URL list file (overrides config)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	log := logger.NewLogger(*logLevel)
	cfg := loadConfig(*configFile, *sitemap, *root, *output, log)

	scraper := crawler.NewScraper(&cfg.Fetch)

	log.Info("Fetching sitemap", "url", cfg.Source.Sitemap)

	html, err := scraper.Fetch(context.Background(), cfg.Source.Sitemap)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to fetch sitemap: %v", err))
		os.Exit(1)
	}

	harvester, err := harvest.NewHarvester(cfg.Source.Root, cfg.Source.SkipSuffixPattern)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	urls, err := harvester.Extract(html)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to extract URLs: %v", err))
		os.Exit(1)
	}

	if err := harvest.WriteURLFile(cfg.Source.URLFile, urls); err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	fmt.Printf("✓ %d crawlable pages harvested to %s\n", len(urls), cfg.Source.URLFile)
}

func loadConfig(configFile, sitemap, root, output string, log *logger.Logger) *config.Crawler {
	var (
		cfg *config.Crawler
		err error
	)

	if configFile != "" {
		cfg, err = config.LoadCrawler(configFile)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Failed to load config: %v", err))
			os.Exit(1)
		}
	} else {
		cfg = config.DefaultCrawler()
	}

	if sitemap != "" {
		cfg.Source.Sitemap = sitemap
	}

	if root != "" {
		cfg.Source.Root = root
	}

	if output != "" {
		cfg.Source.URLFile = output
	}

	if cfg.Source.Sitemap == "" || cfg.Source.Root == "" || cfg.Source.URLFile == "" {
		log.Error("❌ Sitemap, root and output URL file are required (flags or config file)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	return cfg
}
