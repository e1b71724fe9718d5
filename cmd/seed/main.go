// Package main provides the seed command-line tool that prepares an empty
// local pages database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pagesync/internal/store"
)

func main() {
	dbPath := flag.String("db", "pages.db", "Path to the local SQLite database")

	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📚 SQLite DB ready → %s\n", *dbPath)
}
