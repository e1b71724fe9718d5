// Package main provides the migrator command-line tool that moves page
// records from the local SQLite store into the hosted Supabase table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pagesync/internal/config"
	"pagesync/internal/logger"
	"pagesync/internal/migrate"
	"pagesync/internal/report"
	"pagesync/internal/store"
	"pagesync/internal/supabase"
)

func main() {
	dbPath := flag.String("db", "pages.db", "Path to the local SQLite database")
	table := flag.String("table", "", "Destination table name (defaults to PAGES_TABLE or 'pages')")
	batchSize := flag.Int("batch-size", config.GetEnvInt("MIGRATE_BATCH_SIZE", migrate.DefaultBatchSize),
		"Number of records per upsert call")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	log := logger.NewLogger(*logLevel)
	ctx := context.Background()

	// Config is validated before any store connection of any kind.
	cfg := config.FromEnv()
	if err := cfg.ValidateStore(); err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	if *table == "" {
		*table = cfg.PagesTable
	}

	src, err := store.OpenReadOnly(*dbPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to open local database: %v", err))
		os.Exit(1)
	}
	defer src.Close()

	log.Info("Fetching records from local database", "db", *dbPath)

	pages, err := src.FetchAll(ctx)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to read local database: %v", err))
		os.Exit(1)
	}

	if len(pages) == 0 {
		log.Info("No records found in local database, nothing to migrate")

		return
	}

	log.Info("Starting migration", "records", len(pages), "batch_size", *batchSize, "table", *table)

	client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, log)
	dest := supabase.NewPagesTable(client, *table)
	migrator := migrate.NewMigrator(dest, *batchSize, log)

	summary := migrator.Migrate(ctx, pages)

	fmt.Print(report.MigrationSummary(summary))

	if summary.Failed > 0 {
		fmt.Println("\nWarning: some records failed to upload. Re-run the migrator to retry; the upsert is idempotent.")
	} else {
		fmt.Println("\n✓ All records were uploaded successfully.")
	}
}
