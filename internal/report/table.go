// Package report renders normalized and reconciled provider data as
// fixed-width text tables for chat clients that display ``` blocks in a
// monospace font.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const blockDelimiter = "```"

// Column declares one table column.
type Column struct {
	Label string
	Width int
	// Pad fills a cell up to Width. Name columns use '.', numeric columns ' '.
	Pad rune
	// Numeric cells are padded but never truncated.
	Numeric bool
}

// Cell fits s to the column: text is cut to the display width, then padded.
func (c Column) Cell(s string) string {
	if !c.Numeric {
		s = runewidth.Truncate(s, c.Width, "")
	}
	return padRight(s, c.Width, c.Pad)
}

func (c Column) header() string {
	return padRight(runewidth.Truncate(c.Label, c.Width, ""), c.Width, '.')
}

func (c Column) rule() string {
	return strings.Repeat("-", c.Width)
}

// Table is a static report layout.
type Table struct {
	// Title lines are written inside the block, above the header.
	Title   []string
	Columns []Column
}

// Render lays rows out under the column headers and wraps the result in a
// monospace block. Missing cells render empty; extra cells are dropped.
func (t Table) Render(rows [][]string) string {
	var b strings.Builder
	b.WriteString(blockDelimiter)
	b.WriteByte('\n')
	for _, line := range t.Title {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(t.Title) > 0 {
		b.WriteByte('\n')
	}

	headers := make([]string, len(t.Columns))
	rules := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.header()
		rules[i] = c.rule()
	}
	writeLine(&b, headers)
	writeLine(&b, rules)

	cells := make([]string, len(t.Columns))
	for _, row := range rows {
		for i, c := range t.Columns {
			var v string
			if i < len(row) {
				v = row[i]
			}
			cells[i] = c.Cell(v)
		}
		writeLine(&b, cells)
	}

	b.WriteString(blockDelimiter)
	return b.String()
}

func writeLine(b *strings.Builder, cells []string) {
	b.WriteString(strings.Join(cells, "|"))
	b.WriteByte('\n')
}

// Block wraps preformatted lines in a monospace block.
func Block(lines ...string) string {
	return blockDelimiter + "\n" + strings.Join(lines, "\n") + "\n" + blockDelimiter
}

func padRight(s string, width int, pad rune) string {
	w := runewidth.StringWidth(s)
	pw := runewidth.RuneWidth(pad)
	if w >= width || pw == 0 {
		return s
	}
	return s + strings.Repeat(string(pad), (width-w)/pw)
}
