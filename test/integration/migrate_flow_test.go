// Package integration exercises the full local-store to hosted-store
// migration flow against an in-process PostgREST stub.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesync/internal/logger"
	"pagesync/internal/migrate"
	"pagesync/internal/models"
	"pagesync/internal/store"
	"pagesync/internal/supabase"
)

// restStub mimics the PostgREST upsert endpoint, tracking destination state
// keyed on url. Batch numbers listed in failBatches reply 503.
type restStub struct {
	mu          sync.Mutex
	state       map[string]models.Page
	batchSizes  []int
	failBatches map[int]bool
}

func newRESTStub(failBatches ...int) *restStub {
	fail := make(map[int]bool)
	for _, n := range failBatches {
		fail[n] = true
	}

	return &restStub{
		state:       make(map[string]models.Page),
		failBatches: fail,
	}
}

func (s *restStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/pages", r.URL.Path)
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var pages []models.Page
		require.NoError(t, json.Unmarshal(body, &pages))

		s.mu.Lock()
		defer s.mu.Unlock()

		s.batchSizes = append(s.batchSizes, len(pages))

		if s.failBatches[len(s.batchSizes)] {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		for _, p := range pages {
			s.state[p.URL] = p
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func seedSource(t *testing.T, n int) *store.Store {
	t.Helper()

	src, err := store.Open(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	ctx := context.Background()
	require.NoError(t, src.Init(ctx))

	for i := 0; i < n; i++ {
		require.NoError(t, src.UpsertPage(ctx, models.Page{
			URL:       fmt.Sprintf("https://example.org/page-%03d", i),
			Title:     fmt.Sprintf("Page %d", i),
			Markdown:  "# heading\n\nbody",
			CrawledAt: 1700000000 + int64(i),
		}))
	}

	return src
}

func runMigration(t *testing.T, src *store.Store, stub *restStub, batchSize int) migrate.Summary {
	t.Helper()

	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)

	log := logger.NewLogger("error")
	client := supabase.NewClient(server.URL, "service-key", log)
	dest := supabase.NewPagesTable(client, "pages")

	ctx := context.Background()

	pages, err := src.FetchAll(ctx)
	require.NoError(t, err)

	return migrate.NewMigrator(dest, batchSize, log).Migrate(ctx, pages)
}

func TestMigrateFlow_AllSucceed(t *testing.T) {
	src := seedSource(t, 120)
	stub := newRESTStub()

	summary := runMigration(t, src, stub, 50)

	assert.Equal(t, []int{50, 50, 20}, stub.batchSizes)
	assert.Equal(t, 120, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.Zero(t, summary.BatchesFailed)
	assert.Len(t, stub.state, 120)
}

func TestMigrateFlow_OneBatchFails(t *testing.T) {
	src := seedSource(t, 120)
	stub := newRESTStub(2)

	summary := runMigration(t, src, stub, 50)

	// The failing second batch does not stop the third.
	assert.Equal(t, []int{50, 50, 20}, stub.batchSizes)
	assert.Equal(t, 70, summary.Succeeded)
	assert.Equal(t, 50, summary.Failed)
	assert.Equal(t, 1, summary.BatchesFailed)
	assert.Equal(t, summary.TotalRecords, summary.Succeeded+summary.Failed)
	assert.Len(t, stub.state, 70)
}

func TestMigrateFlow_Rerun_IsIdempotent(t *testing.T) {
	src := seedSource(t, 30)
	stub := newRESTStub()

	runMigration(t, src, stub, 10)
	firstState := make(map[string]models.Page, len(stub.state))
	for k, v := range stub.state {
		firstState[k] = v
	}

	runMigration(t, src, stub, 10)

	assert.Equal(t, firstState, stub.state)
}

func TestMigrateFlow_SourceUnavailable(t *testing.T) {
	stub := newRESTStub()
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	_, err := store.OpenReadOnly(filepath.Join(t.TempDir(), "missing.db"))

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrSourceUnavailable)
	// Nothing reached the destination.
	assert.Empty(t, stub.batchSizes)
}
