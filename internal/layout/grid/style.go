// File: internal/layout/grid/style.go
package grid

import (
	"strconv"
	"strings"

	"github.com/xkilldash9x/termstyle/internal/css/style"
	"github.com/xkilldash9x/termstyle/internal/dom"
)

// ContainerFromStyle reads the grid container properties of a resolved style.
func ContainerFromStyle(r style.Resolved) Container {
	c := Container{
		Columns:     r.Get("grid-template-columns"),
		Rows:        r.Get("grid-template-rows"),
		Areas:       areasValue(r["grid-template-areas"]),
		AutoFlow:    r.Get("grid-auto-flow"),
		AutoRows:    r.Get("grid-auto-rows"),
		AutoColumns: r.Get("grid-auto-columns"),
	}
	// gap: <row> [<column>]
	if g := r["gap"].Values; len(g) > 0 {
		c.Gap = cells(g[0])
		if len(g) > 1 {
			c.RowGap = c.Gap
			c.ColumnGap = cells(g[1])
		}
	}
	if v := r.Get("column-gap"); v != "" {
		c.ColumnGap = cells(v)
	}
	if v := r.Get("row-gap"); v != "" {
		c.RowGap = cells(v)
	}
	return c
}

// areasValue turns the split values of grid-template-areas back into one
// row per quoted string. An unquoted value is a single row.
func areasValue(e style.Entry) string {
	if !strings.ContainsAny(e.Value(), `"'`) {
		return e.Value()
	}
	rows := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		rows = append(rows, strings.Trim(v, `"'`))
	}
	return strings.Join(rows, "\n")
}

// ItemFromStyle reads the grid item properties of a child's resolved style.
// The element's text is used as its content.
func ItemFromStyle(r style.Resolved, el *dom.Element) Item {
	it := Item{
		Area:        r.Get("grid-area"),
		Column:      r.Get("grid-column"),
		Row:         r.Get("grid-row"),
		ColumnStart: line(r.Get("grid-column-start")),
		ColumnEnd:   line(r.Get("grid-column-end")),
		RowStart:    line(r.Get("grid-row-start")),
		RowEnd:      line(r.Get("grid-row-end")),
		JustifySelf: r.Get("justify-self"),
		AlignSelf:   r.Get("align-self"),
	}
	if v, err := strconv.Atoi(r.Get("order")); err == nil {
		it.Order = v
	}
	if el != nil {
		it.Name = el.Label()
		it.Content = el.Text
	}
	if w := cells(r.Get("width")); w > 0 {
		it.ContentWidth = w
	}
	if h := cells(r.Get("height")); h > 0 {
		it.ContentHeight = h
	}
	return it
}

// FromTree builds a container and its items from the children of id.
// resolved is indexed by element ID, as returned by style.Engine.ResolveTree.
// Children with display: none are left out.
func FromTree(t *dom.Tree, id dom.ID, resolved []style.Resolved) (Container, []Item, []dom.ID) {
	at := func(id dom.ID) style.Resolved {
		if int(id) >= 0 && int(id) < len(resolved) {
			return resolved[id]
		}
		return nil
	}
	c := ContainerFromStyle(at(id))
	var items []Item
	var ids []dom.ID
	for _, child := range t.Children(id) {
		r := at(child)
		if r.Get("display") == "none" {
			continue
		}
		items = append(items, ItemFromStyle(r, t.Get(child)))
		ids = append(ids, child)
	}
	return c, items, ids
}

// line reads a numeric longhand; "auto" and anything else are 0.
func line(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func cells(v string) int {
	v = strings.TrimSpace(strings.ToLower(v))
	for _, suffix := range []string{"cells", "px", "ch", "c"} {
		if strings.HasSuffix(v, suffix) {
			v = strings.TrimSuffix(v, suffix)
			break
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
