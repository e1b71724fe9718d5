// Package migrate moves page records from the local store to the hosted store.
//
// Records are read in full, partitioned into fixed-size batches and upserted
// one batch at a time. A failing batch is counted and logged with its keys,
// then the run moves on to the next batch. There is no retry within a run:
// because the destination write is an upsert keyed on url, re-running the
// whole migration is the recovery mechanism.
package migrate

import (
	"context"
	"time"

	"pagesync/internal/logger"
	"pagesync/internal/models"
)

// DefaultBatchSize is the number of records sent per upsert call unless
// overridden.
const DefaultBatchSize = 50

// Destination is the upsert-capable remote store.
type Destination interface {
	UpsertPages(ctx context.Context, pages []models.Page) error
}

// Summary reports the outcome of one migration run.
type Summary struct {
	TotalRecords  int
	Succeeded     int
	Failed        int
	BatchesIssued int
	BatchesFailed int
	Elapsed       time.Duration
}

// Migrator transfers pages to a destination in sequential batches.
type Migrator struct {
	dest      Destination
	logger    *logger.Logger
	batchSize int
}

// NewMigrator creates a migrator. A non-positive batch size falls back to
// DefaultBatchSize.
func NewMigrator(dest Destination, batchSize int, log *logger.Logger) *Migrator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Migrator{
		dest:      dest,
		batchSize: batchSize,
		logger:    log,
	}
}

// Migrate upserts all pages in batches of at most the configured size, in
// the order they were fetched. Every batch is attempted regardless of
// earlier failures.
func (m *Migrator) Migrate(ctx context.Context, pages []models.Page) Summary {
	start := time.Now()
	summary := Summary{TotalRecords: len(pages)}

	for offset := 0; offset < len(pages); offset += m.batchSize {
		end := offset + m.batchSize
		if end > len(pages) {
			end = len(pages)
		}

		batch := pages[offset:end]
		batchNum := offset/m.batchSize + 1
		summary.BatchesIssued++

		if err := m.dest.UpsertPages(ctx, batch); err != nil {
			summary.Failed += len(batch)
			summary.BatchesFailed++
			m.logger.Error("batch upsert failed",
				"batch", batchNum,
				"records", len(batch),
				"keys", batchKeys(batch),
				"error", err)

			continue
		}

		summary.Succeeded += len(batch)
		m.logger.Info("batch uploaded", "batch", batchNum, "records", len(batch))
	}

	summary.Elapsed = time.Since(start)

	return summary
}

// batchKeys collects the urls of a batch for failure logging.
func batchKeys(batch []models.Page) []string {
	keys := make([]string, len(batch))
	for i, p := range batch {
		keys[i] = p.URL
	}

	return keys
}
