package harvest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sitemapHTML = `
<html><body>
  <a href="/admissions">Admissions</a>
  <a href="/admissions">Admissions (duplicate)</a>
  <a href="https://www.example.org/athletics">Athletics</a>
  <a href="https://example.org/arts#section">Arts</a>
  <a href="https://example.org/files/handbook.pdf">Handbook</a>
  <a href="https://example.org/logo.PNG">Logo</a>
  <a href="https://other.org/elsewhere">Elsewhere</a>
  <a href="mailto:info@example.org">Mail</a>
  <a href="">Empty</a>
</body></html>`

func TestHarvester_Extract(t *testing.T) {
	h, err := NewHarvester("https://www.example.org", `\.(pdf|png|jpe?g|gif|svg)$`)
	require.NoError(t, err)

	urls, err := h.Extract(sitemapHTML)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.org/arts",
		"https://www.example.org/admissions",
		"https://www.example.org/athletics",
	}, urls)
}

func TestHarvester_NoSkipPattern(t *testing.T) {
	h, err := NewHarvester("https://example.org", "")
	require.NoError(t, err)

	urls, err := h.Extract(`<a href="/doc.pdf">doc</a>`)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.org/doc.pdf"}, urls)
}

func TestNewHarvester_InvalidRoot(t *testing.T) {
	_, err := NewHarvester("not a url", "")
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestURLFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	urls := []string{"https://example.org/a", "https://example.org/b"}

	require.NoError(t, WriteURLFile(path, urls))

	got, err := ReadURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, urls, got)
}

func TestReadURLFile_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, WriteURLFile(path, []string{"https://example.org/a", "", "  ", "https://example.org/b"}))

	got, err := ReadURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, got)
}
