package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesync/internal/logger"
	"pagesync/internal/models"
)

func TestClient_Upsert(t *testing.T) {
	var (
		gotPath    string
		gotPrefer  string
		gotAPIKey  string
		gotAuth    string
		gotPayload []models.Page
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefer = r.Header.Get("Prefer")
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "service-key", logger.NewLogger("error"))
	pages := []models.Page{{URL: "https://example.org/a", Markdown: "# A", CrawledAt: 1}}

	err := client.Upsert(context.Background(), "pages", pages)
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/pages", gotPath)
	assert.Contains(t, gotPrefer, "resolution=merge-duplicates")
	assert.Equal(t, "service-key", gotAPIKey)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, pages, gotPayload)
}

func TestClient_Upsert_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"duplicate key"}`, http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", logger.NewLogger("error"))

	err := client.Upsert(context.Background(), "pages", []models.Page{{URL: "x"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatusCode)
	assert.Contains(t, err.Error(), "409")
}

func TestClient_Upsert_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, "key", logger.NewLogger("error"))

	err := client.Upsert(context.Background(), "pages", []models.Page{{URL: "x"}})
	require.Error(t, err)
}

func TestClient_Select(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/pages", r.URL.Path)
		assert.Equal(t, "url,markdown", r.URL.Query().Get("select"))

		_, _ = w.Write([]byte(`[{"url":"https://example.org/a","markdown":"# A"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", logger.NewLogger("error"))

	var pages []models.Page

	err := client.Select(context.Background(), "pages", "url,markdown", &pages)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "https://example.org/a", pages[0].URL)
}

func TestClient_RPC(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/match_chunks", r.URL.Path)

		var args map[string]json.RawMessage

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &args))
		assert.Contains(t, args, "q")
		assert.Contains(t, args, "k")

		_, _ = w.Write([]byte(`[{"url":"https://example.org/a","content":"text","score":0.91}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", logger.NewLogger("error"))

	matches, err := MatchChunks(context.Background(), client, []float32{0.1, 0.2}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 0.91, matches[0].Score, 1e-9)
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/pages", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "key", logger.NewLogger("error"))

	err := client.Upsert(context.Background(), "pages", []models.Page{})
	require.NoError(t, err)
}
