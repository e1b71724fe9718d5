// Package report renders end-of-run summaries for the operator.
package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"pagesync/internal/migrate"
)

const ruleWidth = 50

// Render formats a titled block of label/value rows between "=" rules,
// with values aligned past the widest label. Labels may contain wide
// runes, so display width is measured with runewidth.
func Render(title string, rows [][2]string) string {
	widest := 0

	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > widest {
			widest = w
		}
	}

	var b strings.Builder

	rule := strings.Repeat("=", ruleWidth)
	b.WriteString(rule + "\n")
	b.WriteString(title + "\n")
	b.WriteString(rule + "\n")

	for _, row := range rows {
		label := row[0]
		pad := widest - runewidth.StringWidth(label)
		b.WriteString(label + strings.Repeat(" ", pad) + "  " + row[1] + "\n")
	}

	b.WriteString(rule + "\n")

	return b.String()
}

// MigrationSummary renders the migrator's summary block.
func MigrationSummary(s migrate.Summary) string {
	return Render("MIGRATION SUMMARY", [][2]string{
		{"Total records processed:", fmt.Sprintf("%d", s.TotalRecords)},
		{"Successfully uploaded:", fmt.Sprintf("%d", s.Succeeded)},
		{"Failed to upload:", fmt.Sprintf("%d", s.Failed)},
		{"Batches issued:", fmt.Sprintf("%d", s.BatchesIssued)},
		{"Batches failed:", fmt.Sprintf("%d", s.BatchesFailed)},
		{"Time elapsed:", fmt.Sprintf("%.2f seconds", s.Elapsed.Seconds())},
	})
}
