// File: internal/layout/grid/placement.go
package grid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrPlacementExhausted is returned when auto-placement would need more
// implicit tracks than the engine allows.
var ErrPlacementExhausted = errors.New("grid: auto-placement exceeded the implicit track limit")

// DefaultMaxAutoRows caps how many implicit tracks auto-placement may add
// along the flow axis.
const DefaultMaxAutoRows = 1000

// CellPosition is where an item landed. Row and Column are 1-based.
type CellPosition struct {
	Row, Column         int
	RowSpan, ColumnSpan int
}

// Area converts the position to line coordinates.
func (p CellPosition) Area() Area {
	return Area{
		RowStart: p.Row, RowEnd: p.Row + p.RowSpan,
		ColStart: p.Column, ColEnd: p.Column + p.ColumnSpan,
	}
}

// Item is one grid child. Placement can come from a named Area, from the
// Row and Column shorthands ("2", "span 3", "1 / 3", "2 / span 2"), or from
// the numeric longhands, which override the shorthands when non-zero.
type Item struct {
	Name string `yaml:"name" json:"name,omitempty"`

	Area   string `yaml:"area" json:"area,omitempty"`
	Column string `yaml:"column" json:"column,omitempty"`
	Row    string `yaml:"row" json:"row,omitempty"`

	ColumnStart int `yaml:"column_start" json:"column_start,omitempty"`
	ColumnEnd   int `yaml:"column_end" json:"column_end,omitempty"`
	ColumnSpan  int `yaml:"column_span" json:"column_span,omitempty"`
	RowStart    int `yaml:"row_start" json:"row_start,omitempty"`
	RowEnd      int `yaml:"row_end" json:"row_end,omitempty"`
	RowSpan     int `yaml:"row_span" json:"row_span,omitempty"`

	// Order reorders auto-placed items; ties keep input order.
	Order int `yaml:"order" json:"order,omitempty"`

	JustifySelf string `yaml:"justify_self" json:"justify_self,omitempty"`
	AlignSelf   string `yaml:"align_self" json:"align_self,omitempty"`

	// Content is measured for auto and content-sized tracks unless
	// ContentWidth or ContentHeight are set.
	Content       string `yaml:"content" json:"content,omitempty"`
	ContentWidth  int    `yaml:"content_width" json:"content_width,omitempty"`
	ContentHeight int    `yaml:"content_height" json:"content_height,omitempty"`
}

// Placement is the output of Place. Positions is indexed like the input
// items. Rows and Columns include implicit tracks.
type Placement struct {
	Positions []CellPosition
	Rows      int
	Columns   int
	Warnings  []string
}

// lineSpec is a resolved placement along one axis. start is 0 while the
// item is still auto-placed on that axis.
type lineSpec struct {
	start int
	span  int
}

func (l lineSpec) end() int { return l.start + l.span - 1 }

type itemSpec struct {
	row, col lineSpec
}

// parseLineValue reads one side of a shorthand: "auto", "span N" or a line
// number. Negative numbers count back from the last explicit line.
func parseLineValue(s string, explicit int) (line, span int, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "auto" {
		return 0, 0, nil
	}
	if rest, ok := strings.CutPrefix(s, "span"); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return 0, 1, nil
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("invalid span %q", s)
		}
		return 0, n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, fmt.Errorf("unsupported grid line %q", s)
	}
	switch {
	case n == 0:
		return 0, 0, fmt.Errorf("grid line 0 is invalid")
	case n < 0:
		n = max(explicit+2+n, 1)
	}
	return n, 0, nil
}

// parseLine reads a grid-row or grid-column shorthand.
func parseLine(v string, explicit int) (lineSpec, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	startStr, endStr, hasEnd := strings.Cut(v, "/")

	start, startSpan, err := parseLineValue(startStr, explicit)
	if err != nil {
		return lineSpec{span: 1}, err
	}
	if !hasEnd {
		if startSpan > 0 {
			return lineSpec{span: startSpan}, nil
		}
		return lineSpec{start: start, span: 1}, nil
	}

	end, endSpan, err := parseLineValue(endStr, explicit)
	if err != nil {
		return lineSpec{start: start, span: max(startSpan, 1)}, err
	}
	switch {
	case startSpan > 0 && end > 0:
		return lineSpec{start: max(end-startSpan, 1), span: startSpan}, nil
	case startSpan > 0:
		return lineSpec{span: startSpan}, nil
	case endSpan > 0:
		return lineSpec{start: start, span: endSpan}, nil
	case start > 0 && end > 0:
		if end < start {
			start, end = end, start
		}
		return lineSpec{start: start, span: max(end-start, 1)}, nil
	case end > 0:
		return lineSpec{start: max(end-1, 1), span: 1}, nil
	}
	return lineSpec{start: start, span: 1}, nil
}

// resolveAxis combines a shorthand with the numeric longhands.
func resolveAxis(shorthand string, start, end, span, explicit int) (lineSpec, error) {
	ls, err := parseLine(shorthand, explicit)
	if start > 0 {
		ls.start = start
	}
	if span > 0 {
		ls.span = span
	}
	if end > 0 {
		if ls.start > 0 {
			if end > ls.start {
				ls.span = end - ls.start
			}
		} else {
			ls.start = max(end-ls.span, 1)
		}
	}
	if ls.span < 1 {
		ls.span = 1
	}
	return ls, err
}

func resolveItem(it Item, cols, rows int, areas map[string]Area) (itemSpec, []string) {
	var warnings []string
	rowShort, colShort := it.Row, it.Column

	if it.Area != "" {
		if a, ok := areas[it.Area]; ok {
			return itemSpec{
				row: lineSpec{start: a.RowStart, span: a.Rows()},
				col: lineSpec{start: a.ColStart, span: a.Columns()},
			}, nil
		}
		if parts := strings.Split(it.Area, "/"); len(parts) > 1 {
			// row-start / column-start / row-end / column-end
			for len(parts) < 4 {
				parts = append(parts, "auto")
			}
			rowShort = parts[0] + "/" + parts[2]
			colShort = parts[1] + "/" + parts[3]
		} else {
			warnings = append(warnings, fmt.Sprintf("unknown grid area %q; auto-placing", it.Area))
		}
	}

	row, err := resolveAxis(rowShort, it.RowStart, it.RowEnd, it.RowSpan, rows)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	col, err := resolveAxis(colShort, it.ColumnStart, it.ColumnEnd, it.ColumnSpan, cols)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	return itemSpec{row: row, col: col}, warnings
}

// clampAxis keeps ls within the first tracks tracks of its axis.
func clampAxis(ls lineSpec, tracks int) (lineSpec, bool) {
	clamped := false
	if ls.span > tracks {
		ls.span, clamped = tracks, true
	}
	if ls.start > 0 && ls.end() > tracks {
		ls.start, clamped = max(tracks-ls.span+1, 1), true
	}
	return ls, clamped
}

// occupancy tracks claimed cells in (major, minor) coordinates.
type occupancy map[[2]int]struct{}

func (o occupancy) free(major, minor lineSpec) bool {
	for m := major.start; m <= major.end(); m++ {
		for n := minor.start; n <= minor.end(); n++ {
			if _, taken := o[[2]int{m, n}]; taken {
				return false
			}
		}
	}
	return true
}

func (o occupancy) mark(major, minor lineSpec) {
	for m := major.start; m <= major.end(); m++ {
		for n := minor.start; n <= minor.end(); n++ {
			o[[2]int{m, n}] = struct{}{}
		}
	}
}

// place runs explicit then auto placement. cols and rows are the explicit
// track counts. The algorithm is written for row flow; column flow swaps
// the axes on the way in and out.
func (e *Engine) place(flow string, items []Item, cols, rows int, areas map[string]Area) (Placement, error) {
	p := Placement{Positions: make([]CellPosition, len(items))}
	flow = strings.ToLower(flow)
	columnFlow := strings.Contains(flow, "column")
	dense := strings.Contains(flow, "dense")

	specs := make([]itemSpec, len(items))
	for i, it := range items {
		s, warnings := resolveItem(it, cols, rows, areas)
		for _, w := range warnings {
			p.Warnings = append(p.Warnings, fmt.Sprintf("item %d: %s", i, w))
		}
		var rowClamped, colClamped bool
		s.row, rowClamped = clampAxis(s.row, rows+e.maxAutoRows)
		s.col, colClamped = clampAxis(s.col, cols+e.maxAutoRows)
		if rowClamped || colClamped {
			p.Warnings = append(p.Warnings, fmt.Sprintf("item %d: placement reaches past %d rows or %d columns; clamped", i, rows+e.maxAutoRows, cols+e.maxAutoRows))
		}
		if columnFlow {
			s.row, s.col = s.col, s.row
		}
		specs[i] = s
	}

	majorCount, minorCount := rows, cols
	if columnFlow {
		majorCount, minorCount = cols, rows
	}
	minorCount = max(minorCount, 1)
	for _, s := range specs {
		if s.col.start > 0 {
			minorCount = max(minorCount, s.col.end())
		}
	}

	occ := occupancy{}
	done := make([]bool, len(items))
	for i, s := range specs {
		if s.row.start > 0 && s.col.start > 0 {
			occ.mark(s.row, s.col)
			majorCount = max(majorCount, s.row.end())
			done[i] = true
		}
	}
	limit := majorCount + e.maxAutoRows

	var pending []int
	for i := range items {
		if !done[i] {
			pending = append(pending, i)
		}
	}
	sort.SliceStable(pending, func(a, b int) bool {
		return items[pending[a]].Order < items[pending[b]].Order
	})

	curMajor, curMinor := 1, 1
	for _, i := range pending {
		s := specs[i]
		if dense {
			curMajor, curMinor = 1, 1
		}

		switch {
		case s.row.start > 0:
			// Locked to a major track; take the first free minor slot.
			if s.col.span > minorCount {
				minorCount = s.col.span
			}
			placed := false
			for n := 1; n+s.col.span-1 <= minorCount; n++ {
				s.col.start = n
				if occ.free(s.row, s.col) {
					placed = true
					break
				}
			}
			if !placed {
				s.col.start = minorCount + 1
				minorCount = s.col.end()
			}

		case s.col.start > 0:
			if s.col.start < curMinor {
				curMajor++
			}
			for s.row.start = curMajor; !occ.free(s.row, s.col); s.row.start++ {
				if s.row.start > limit {
					return p, fmt.Errorf("%w: item %d", ErrPlacementExhausted, i)
				}
			}
			curMajor, curMinor = s.row.start, s.col.end()+1

		default:
			if s.col.span > minorCount {
				p.Warnings = append(p.Warnings, fmt.Sprintf("item %d: span %d exceeds %d tracks; clamped", i, s.col.span, minorCount))
				s.col.span = minorCount
			}
			s.row.start, s.col.start = curMajor, curMinor
			for {
				if s.row.start > limit {
					return p, fmt.Errorf("%w: item %d", ErrPlacementExhausted, i)
				}
				if s.col.end() > minorCount {
					s.row.start++
					s.col.start = 1
					continue
				}
				if occ.free(s.row, s.col) {
					break
				}
				s.col.start++
			}
			curMajor, curMinor = s.row.start, s.col.end()+1
		}

		occ.mark(s.row, s.col)
		majorCount = max(majorCount, s.row.end())
		specs[i] = s
	}

	for i, s := range specs {
		if columnFlow {
			s.row, s.col = s.col, s.row
		}
		p.Positions[i] = CellPosition{
			Row: s.row.start, Column: s.col.start,
			RowSpan: s.row.span, ColumnSpan: s.col.span,
		}
	}
	p.Rows, p.Columns = majorCount, minorCount
	if columnFlow {
		p.Rows, p.Columns = minorCount, majorCount
	}
	return p, nil
}
