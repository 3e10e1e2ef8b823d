// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/clinic-tui/internal/ui/styles"
	"github.com/jeranaias/clinic-tui/internal/util"
)

// Column is a table column. Width is in terminal cells.
type Column struct {
	Title string
	Width int
}

// Table renders rows under fixed-width columns with a selectable row.
// Cells are padded and truncated by display width, so names with accents
// or wide characters stay aligned.
type Table struct {
	Columns []Column
	rows    [][]string
	cursor  int
	height  int // visible rows; 0 shows all
	offset  int
	theme   *styles.Theme
	empty   string
}

// NewTable creates a table with the given columns.
func NewTable(theme *styles.Theme, cols ...Column) *Table {
	return &Table{Columns: cols, theme: theme, empty: "Nothing to show."}
}

// SetRows replaces the rows and clamps the cursor.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	if t.cursor >= len(rows) {
		t.cursor = len(rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.scroll()
}

// SetHeight limits the number of visible rows.
func (t *Table) SetHeight(h int) {
	t.height = h
	t.scroll()
}

// SetEmptyText sets the text shown when there are no rows.
func (t *Table) SetEmptyText(s string) {
	t.empty = s
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Cursor returns the selected row index, or -1 when empty.
func (t *Table) Cursor() int {
	if len(t.rows) == 0 {
		return -1
	}
	return t.cursor
}

// MoveUp moves the cursor up one row.
func (t *Table) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.scroll()
	}
}

// MoveDown moves the cursor down one row.
func (t *Table) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		t.scroll()
	}
}

func (t *Table) scroll() {
	if t.height <= 0 {
		t.offset = 0
		return
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.height {
		t.offset = t.cursor - t.height + 1
	}
}

func (t *Table) renderRow(cells []string) string {
	parts := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = util.PadWidth(cell, col.Width)
	}
	return strings.Join(parts, "  ")
}

// View renders the table.
func (t *Table) View() string {
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}

	var b strings.Builder
	b.WriteString(t.theme.TableHeader.Render(t.renderRow(titles)))
	b.WriteString("\n")

	if len(t.rows) == 0 {
		b.WriteString(t.theme.Muted.Render(t.empty))
		return b.String()
	}

	end := len(t.rows)
	if t.height > 0 && t.offset+t.height < end {
		end = t.offset + t.height
	}
	for i := t.offset; i < end; i++ {
		line := t.renderRow(t.rows[i])
		if i == t.cursor {
			line = t.theme.TableRowSelected.Render(line)
		} else {
			line = t.theme.TableCell.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
