// File: internal/layout/grid/layout.go
package grid

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/termstyle/internal/dom"
)

// Container holds the grid properties of the container element.
type Container struct {
	Columns string `yaml:"columns" json:"columns,omitempty"`
	Rows    string `yaml:"rows" json:"rows,omitempty"`
	Areas   string `yaml:"areas" json:"areas,omitempty"`

	// Gap applies to both axes unless ColumnGap or RowGap is non-zero.
	Gap       int `yaml:"gap" json:"gap,omitempty"`
	ColumnGap int `yaml:"column_gap" json:"column_gap,omitempty"`
	RowGap    int `yaml:"row_gap" json:"row_gap,omitempty"`

	// AutoFlow is "row" (default), "column", optionally with "dense".
	AutoFlow    string `yaml:"auto_flow" json:"auto_flow,omitempty"`
	AutoRows    string `yaml:"auto_rows" json:"auto_rows,omitempty"`
	AutoColumns string `yaml:"auto_columns" json:"auto_columns,omitempty"`
}

func (c Container) gaps() (col, row int) {
	col, row = c.Gap, c.Gap
	if c.ColumnGap != 0 {
		col = c.ColumnGap
	}
	if c.RowGap != 0 {
		row = c.RowGap
	}
	return max(col, 0), max(row, 0)
}

// Rect is an item's box in cells, relative to the container origin.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Result is a computed grid layout. Positions and Rects are indexed like the
// input items.
type Result struct {
	ColumnSizes []int
	RowSizes    []int
	Positions   []CellPosition
	Rects       []Rect
	Areas       map[string]Area
}

// Engine computes grid placement and layout. It holds no per-call state.
type Engine struct {
	logger      *zap.Logger
	maxAutoRows int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.Named("grid-engine")
		}
	}
}

// WithMaxAutoRows bounds implicit tracks added by auto-placement. Values
// below 1 are ignored.
func WithMaxAutoRows(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAutoRows = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop(), maxAutoRows: DefaultMaxAutoRows}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// template is the parsed explicit grid of a container.
type template struct {
	columns, rows []Track
	areas         map[string]Area
}

func (e *Engine) parseTemplate(c Container) template {
	t := template{areas: ParseGridAreas(c.Areas)}
	t.columns = e.tracks("grid-template-columns", c.Columns)
	t.rows = e.tracks("grid-template-rows", c.Rows)
	return t
}

func (e *Engine) tracks(prop, value string) []Track {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	tracks, warnings := ParseTrackDefinition(value)
	for _, w := range warnings {
		e.logger.Warn("Invalid track definition.", zap.String("property", prop), zap.String("value", value), zap.String("reason", w))
	}
	return tracks
}

// explicit returns the explicit column and row counts. Named areas extend
// the explicit grid when they reach past the templates.
func (t template) explicit() (cols, rows int) {
	cols, rows = len(t.columns), len(t.rows)
	for _, a := range t.areas {
		cols = max(cols, a.ColEnd-1)
		rows = max(rows, a.RowEnd-1)
	}
	return cols, rows
}

// Place assigns every item a cell range: explicitly placed items first,
// then the rest in order along the container's auto-flow direction.
func (e *Engine) Place(c Container, items []Item) (Placement, error) {
	return e.placeWith(e.parseTemplate(c), c, items)
}

func (e *Engine) placeWith(t template, c Container, items []Item) (Placement, error) {
	cols, rows := t.explicit()
	p, err := e.place(c.AutoFlow, items, cols, rows, t.areas)
	for _, w := range p.Warnings {
		e.logger.Warn("Grid placement adjusted.", zap.String("reason", w))
	}
	if err != nil {
		e.logger.Error("Grid auto-placement failed.", zap.Int("items", len(items)), zap.Int("max_auto_rows", e.maxAutoRows), zap.Error(err))
	}
	return p, err
}

// Layout places the items and sizes the tracks for a container of the
// given size, returning each item's rectangle.
func (e *Engine) Layout(c Container, items []Item, width, height int) (Result, error) {
	t := e.parseTemplate(c)
	p, err := e.placeWith(t, c, items)
	if err != nil {
		return Result{}, err
	}

	columns := extend(t.columns, p.Columns, e.tracks("grid-auto-columns", c.AutoColumns))
	rows := extend(t.rows, p.Rows, e.tracks("grid-auto-rows", c.AutoRows))

	colHints := make([]int, len(columns))
	rowHints := make([]int, len(rows))
	for i, it := range items {
		pos := p.Positions[i]
		if pos.ColumnSpan == 1 {
			colHints[pos.Column-1] = max(colHints[pos.Column-1], contentWidth(it))
		}
		if pos.RowSpan == 1 {
			rowHints[pos.Row-1] = max(rowHints[pos.Row-1], contentHeight(it))
		}
	}

	colGap, rowGap := c.gaps()
	res := Result{
		ColumnSizes: CalculateTrackSizes(columns, width, colGap, colHints),
		RowSizes:    CalculateTrackSizes(rows, height, rowGap, rowHints),
		Positions:   p.Positions,
		Rects:       make([]Rect, len(items)),
		Areas:       t.areas,
	}

	colStarts := offsets(res.ColumnSizes, colGap)
	rowStarts := offsets(res.RowSizes, rowGap)
	for i, it := range items {
		pos := p.Positions[i]
		x, w := span(colStarts, res.ColumnSizes, colGap, pos.Column, pos.ColumnSpan)
		y, h := span(rowStarts, res.RowSizes, rowGap, pos.Row, pos.RowSpan)
		x, w = alignSelf(it.JustifySelf, x, w, contentWidth(it))
		y, h = alignSelf(it.AlignSelf, y, h, contentHeight(it))
		res.Rects[i] = Rect{X: x, Y: y, Width: w, Height: h}
	}

	e.logger.Debug("Grid layout computed.",
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(rows)),
		zap.Int("items", len(items)),
	)
	return res, nil
}

// extend appends implicit tracks up to count, cycling through the auto
// track list. Without one, implicit tracks are auto.
func extend(explicit []Track, count int, auto []Track) []Track {
	out := append([]Track(nil), explicit...)
	if len(auto) == 0 {
		auto = []Track{{Kind: Auto}}
	}
	for i := 0; len(out) < count; i++ {
		out = append(out, auto[i%len(auto)])
	}
	return out
}

// offsets returns the starting cell of each track.
func offsets(sizes []int, gap int) []int {
	starts := make([]int, len(sizes))
	pos := 0
	for i, s := range sizes {
		starts[i] = pos
		pos += s + gap
	}
	return starts
}

// span returns the start and extent of lines [start, start+n), including
// the gaps between the spanned tracks.
func span(starts, sizes []int, gap, start, n int) (int, int) {
	first := start - 1
	if first < 0 || first >= len(sizes) {
		return 0, 0
	}
	size := 0
	for i := first; i < first+n && i < len(sizes); i++ {
		if i > first {
			size += gap
		}
		size += sizes[i]
	}
	return starts[first], size
}

// alignSelf shrinks an item to its content inside its cell for start, end
// and center alignment. stretch, the default, fills the cell.
func alignSelf(mode string, pos, size, content int) (int, int) {
	if content <= 0 || content >= size {
		return pos, size
	}
	switch strings.ToLower(mode) {
	case "start", "self-start", "flex-start", "left", "top":
		return pos, content
	case "end", "self-end", "flex-end", "right", "bottom":
		return pos + size - content, content
	case "center":
		return pos + (size-content)/2, content
	}
	return pos, size
}

func contentWidth(it Item) int {
	if it.ContentWidth > 0 {
		return it.ContentWidth
	}
	return dom.TextWidth(it.Content)
}

func contentHeight(it Item) int {
	if it.ContentHeight > 0 {
		return it.ContentHeight
	}
	return dom.TextHeight(it.Content)
}

// CalculateGridLayout lays out items with a default engine.
func CalculateGridLayout(c Container, items []Item, width, height int) (Result, error) {
	return NewEngine().Layout(c, items, width, height)
}
