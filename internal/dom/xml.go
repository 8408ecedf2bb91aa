// File: internal/dom/xml.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// ParseXML builds a Tree from a well-formed XML document. Unlike ParseHTML
// there are no implicit wrappers: the document element becomes the root.
// Namespace prefixes are dropped from element and attribute names.
func ParseXML(r io.Reader) (*Tree, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse xml markup: %w", err)
	}

	t := NewTree(64)
	if root := doc.Root(); root != nil {
		convertXML(t, NoID, root)
	}
	return t, nil
}

func convertXML(t *Tree, parent ID, x *etree.Element) {
	el := NewElement(x.Tag)
	for _, a := range x.Attr {
		switch a.Key {
		case "id":
			el.Identifier = a.Value
		case "class":
			for _, c := range strings.Fields(a.Value) {
				el.Classes[c] = struct{}{}
			}
		}
		el.Attrs[a.Key] = a.Value
	}

	var text []string
	for _, tok := range x.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			if s := strings.Join(strings.Fields(cd.Data), " "); s != "" {
				text = append(text, s)
			}
		}
	}
	el.Text = strings.Join(text, " ")

	id := t.Add(parent, el)
	for _, c := range x.ChildElements() {
		convertXML(t, id, c)
	}
}
