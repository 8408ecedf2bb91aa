// File: internal/layout/grid/areas.go
package grid

import (
	"sort"
	"strings"
)

// Area is a named rectangle of grid lines. Lines are 1-based and the end
// lines are exclusive, so a single cell at row 1 column 2 is {1, 2, 2, 3}.
type Area struct {
	RowStart, RowEnd int
	ColStart, ColEnd int
}

// Rows is the number of rows the area spans.
func (a Area) Rows() int { return a.RowEnd - a.RowStart }

// Columns is the number of columns the area spans.
func (a Area) Columns() int { return a.ColEnd - a.ColStart }

// ParseGridAreas reads a grid-template-areas value. Rows are either quoted
// strings or, when a line carries no quotes, the line itself. Cells are
// whitespace separated and "." (or any run of dots) marks an empty cell.
// Each label maps to the bounding box of the cells carrying it; labels that
// do not form a rectangle still get their bounding box.
func ParseGridAreas(template string) map[string]Area {
	areas := make(map[string]Area)
	for r, row := range templateRows(template) {
		for c, cell := range strings.Fields(row) {
			if strings.Trim(cell, ".") == "" {
				continue
			}
			a, seen := areas[cell]
			if !seen {
				areas[cell] = Area{RowStart: r + 1, RowEnd: r + 2, ColStart: c + 1, ColEnd: c + 2}
				continue
			}
			a.RowStart = min(a.RowStart, r+1)
			a.RowEnd = max(a.RowEnd, r+2)
			a.ColStart = min(a.ColStart, c+1)
			a.ColEnd = max(a.ColEnd, c+2)
			areas[cell] = a
		}
	}
	return areas
}

func templateRows(template string) []string {
	var rows []string
	for _, line := range strings.Split(template, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.ContainsAny(line, `"'`) {
			rows = append(rows, line)
			continue
		}
		for line != "" {
			i := strings.IndexAny(line, `"'`)
			if i < 0 {
				break
			}
			quote := line[i]
			end := strings.IndexByte(line[i+1:], quote)
			if end < 0 {
				rows = append(rows, line[i+1:])
				break
			}
			rows = append(rows, line[i+1:i+1+end])
			line = line[i+end+2:]
		}
	}
	return rows
}

// GridAreasToTemplate renders areas back into an unquoted template with one
// line per row and "." for uncovered cells. Columns are padded to line up.
// Where areas overlap, the alphabetically later label wins.
func GridAreasToTemplate(areas map[string]Area) string {
	if len(areas) == 0 {
		return ""
	}
	names := make([]string, 0, len(areas))
	rows, cols := 0, 0
	for name, a := range areas {
		names = append(names, name)
		rows = max(rows, a.RowEnd-1)
		cols = max(cols, a.ColEnd-1)
	}
	sort.Strings(names)

	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		for c := range cells[r] {
			cells[r][c] = "."
		}
	}
	for _, name := range names {
		a := areas[name]
		for r := max(a.RowStart, 1); r < a.RowEnd; r++ {
			for c := max(a.ColStart, 1); c < a.ColEnd; c++ {
				cells[r-1][c-1] = name
			}
		}
	}

	widths := make([]int, cols)
	for _, row := range cells {
		for c, cell := range row {
			widths[c] = max(widths[c], len(cell))
		}
	}

	lines := make([]string, rows)
	for r, row := range cells {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[c]-len(cell)))
		}
		lines[r] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
