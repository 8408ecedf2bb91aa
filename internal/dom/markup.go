// File: internal/dom/markup.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML builds a Tree from markup. Custom element names are allowed
// (<screen>, <box>, ...). The implicit html/head/body wrappers added by the
// HTML parser are dropped, so the markup's top-level elements become roots.
func ParseHTML(r io.Reader) (*Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	t := NewTree(64)
	body := findBody(doc)
	if body == nil {
		return t, nil
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			convertNode(t, NoID, c)
		}
	}
	return t, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func convertNode(t *Tree, parent ID, n *html.Node) {
	el := NewElement(n.Data)
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			el.Identifier = a.Val
		case "class":
			for _, c := range strings.Fields(a.Val) {
				el.Classes[c] = struct{}{}
			}
		}
		el.Attrs[a.Key] = a.Val
	}

	var text []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if s := strings.Join(strings.Fields(c.Data), " "); s != "" {
				text = append(text, s)
			}
		}
	}
	el.Text = strings.Join(text, " ")

	id := t.Add(parent, el)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			convertNode(t, id, c)
		}
	}
}

// TextWidth is the number of terminal cells needed to display the widest
// line of s.
func TextWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

// TextHeight is the number of lines in s; empty text has no height.
func TextHeight(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
