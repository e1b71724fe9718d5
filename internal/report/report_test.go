package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesync/internal/migrate"
)

func TestRender_AlignsValues(t *testing.T) {
	out := Render("TEST", [][2]string{
		{"Short:", "1"},
		{"A much longer label:", "2"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, strings.Repeat("=", 50), lines[0])
	assert.Equal(t, "TEST", lines[1])

	// Values line up at the same column.
	shortIdx := strings.Index(lines[3], "1")
	longIdx := strings.Index(lines[4], "2")
	assert.Equal(t, shortIdx, longIdx)
}

func TestMigrationSummary(t *testing.T) {
	out := MigrationSummary(migrate.Summary{
		TotalRecords:  120,
		Succeeded:     100,
		Failed:        20,
		BatchesIssued: 3,
		BatchesFailed: 1,
		Elapsed:       1500 * time.Millisecond,
	})

	assert.Contains(t, out, "MIGRATION SUMMARY")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "1.50 seconds")
}
