// File: internal/css/style/inherit.go
package style

// inheritableProperties pass from a parent's resolved style to its children.
// Box properties (background, border, padding, size) do not.
var inheritableProperties = []string{
	"color",
	"font-family",
	"font-style",
	"font-weight",
	"text-align",
	"text-decoration",
	"text-style",
	"text-transform",
	"text-wrap",
	"text-overflow",
	"visibility",
	"bold",
	"italic",
	"underline",
	"dim",
	"strikethrough",
	"cursor",
	"white-space",
	"line-height",
}

func defaultInheritable() map[string]struct{} {
	m := make(map[string]struct{}, len(inheritableProperties))
	for _, p := range inheritableProperties {
		m[p] = struct{}{}
	}
	return m
}
