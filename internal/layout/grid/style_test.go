// File: internal/layout/grid/style_test.go
package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/termstyle/internal/css/parser"
	"github.com/xkilldash9x/termstyle/internal/css/selector"
	"github.com/xkilldash9x/termstyle/internal/css/style"
	"github.com/xkilldash9x/termstyle/internal/dom"
)

const dashboardCSS = `
#app {
	grid-template-columns: 12 1fr;
	grid-template-rows: 1 1fr;
	grid-template-areas: "top top" "side main";
	gap: 0 1;
}
.title { grid-area: top; }
.nav { grid-area: side; justify-self: start; width: 6; }
.content { grid-column: 2; grid-row: 2; order: 3; }
.hidden { display: none; }
`

func TestFromTree(t *testing.T) {
	tree := dom.NewTree(5)
	app := tree.Add(dom.NoID, dom.NewElement("screen").WithIdentifier("app"))
	tree.Add(app, dom.NewElement("label", "title").WithText("Dashboard"))
	tree.Add(app, dom.NewElement("list", "nav"))
	tree.Add(app, dom.NewElement("box", "hidden"))
	body := tree.Add(app, dom.NewElement("box", "content"))

	sheet := parser.New(zaptest.NewLogger(t)).Parse(dashboardCSS)
	require.NoError(t, sheet.Err())
	resolved := style.NewEngine(sheet).ResolveTree(tree, style.Media{Width: 80, Height: 24}, selector.NewContext())

	c, items, ids := FromTree(tree, app, resolved)
	assert.Equal(t, Container{
		Columns:   "12 1fr",
		Rows:      "1 1fr",
		Areas:     "top top\nside main",
		Gap:       0,
		RowGap:    0,
		ColumnGap: 1,
	}, c)
	require.Len(t, items, 3)
	assert.Equal(t, body, ids[2])

	assert.Equal(t, "top", items[0].Area)
	assert.Equal(t, "Dashboard", items[0].Content)
	assert.Equal(t, "start", items[1].JustifySelf)
	assert.Equal(t, 6, items[1].ContentWidth)
	assert.Equal(t, "2", items[2].Column)
	assert.Equal(t, 3, items[2].Order)

	res, err := newTestEngine(t).Layout(c, items, 40, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{12, 27}, res.ColumnSizes)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 40, Height: 1}, res.Rects[0])
	assert.Equal(t, Rect{X: 0, Y: 1, Width: 6, Height: 9}, res.Rects[1])
	assert.Equal(t, Rect{X: 13, Y: 1, Width: 27, Height: 9}, res.Rects[2])
}

func TestItemFromStyle_Longhands(t *testing.T) {
	r := style.Resolved{
		"grid-column-start": {Values: []string{"2"}},
		"grid-column-end":   {Values: []string{"4"}},
		"grid-row-start":    {Values: []string{"auto"}},
		"grid-row-end":      {Values: []string{"3"}},
		"align-self":        {Values: []string{"center"}},
	}
	it := ItemFromStyle(r, nil)
	assert.Equal(t, Item{ColumnStart: 2, ColumnEnd: 4, RowEnd: 3, AlignSelf: "center"}, it)
}

func TestContainerFromStyle_Gaps(t *testing.T) {
	c := ContainerFromStyle(style.Resolved{
		"gap":            {Values: []string{"2"}},
		"row-gap":        {Values: []string{"1ch"}},
		"grid-auto-flow": {Values: []string{"column", "dense"}},
	})
	assert.Equal(t, 2, c.Gap)
	assert.Equal(t, 1, c.RowGap)
	assert.Zero(t, c.ColumnGap)
	assert.Equal(t, "column dense", c.AutoFlow)

	c = ContainerFromStyle(style.Resolved{"grid-template-areas": {Values: []string{"a", "b"}}})
	assert.Equal(t, "a b", c.Areas)
}
