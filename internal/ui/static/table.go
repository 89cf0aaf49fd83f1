// Package static provides non-interactive terminal output components:
// column-aligned tables and key/value blocks.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/gitkit/internal/ui/styles"
)

// RenderTable creates a formatted table with proper column alignment.
// lipgloss/table computes column widths from the content. No borders are
// rendered. An empty row set renders nothing.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle.PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	return t.String() + "\n"
}

// RenderFields renders label/value pairs with the labels right-aligned,
// the way "gitkit info" and "gitkit show" print a single object.
func RenderFields(fields [][2]string) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f[0]))
	}

	label := styles.MutedStyle.Width(width + 1).Align(lipgloss.Right)
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(label.Render(f[0] + ":"))
		b.WriteString(" ")
		b.WriteString(f[1])
		b.WriteString("\n")
	}
	return b.String()
}
