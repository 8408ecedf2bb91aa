// File: internal/css/selector/query.go
package selector

import "github.com/xkilldash9x/termstyle/internal/dom"

// QueryAll returns every element of the tree matching the list, in document
// order.
func QueryAll(t *dom.Tree, l List, ctx Context) []dom.ID {
	var out []dom.ID
	t.Walk(func(id dom.ID, _ *dom.Element) bool {
		if ok, _ := l.Match(t, id, ctx); ok {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Query returns the first matching element in document order.
func Query(t *dom.Tree, l List, ctx Context) (dom.ID, bool) {
	found := dom.NoID
	t.Walk(func(id dom.ID, _ *dom.Element) bool {
		if ok, _ := l.Match(t, id, ctx); ok {
			found = id
			return false
		}
		return true
	})
	return found, found != dom.NoID
}

// QueryString parses sel and runs QueryAll. Parse warnings are returned
// alongside the result.
func QueryString(t *dom.Tree, sel string, ctx Context) ([]dom.ID, []string) {
	l, warnings := Parse(sel)
	return QueryAll(t, l, ctx), warnings
}
