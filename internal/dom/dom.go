// File: internal/dom/dom.go
package dom

import (
	"sort"
	"strings"
)

// ID addresses an element inside a Tree arena.
type ID int

// NoID marks an absent link (no parent, no sibling, no child).
const NoID ID = -1

// Element is a single node of the render tree. Link fields are maintained by
// the owning Tree and are lookups only; callers should not rewrite them.
type Element struct {
	// Type is the element type name (e.g. "box", "button"), lower case.
	Type string
	// Identifier is the optional unique identifier matched by #id selectors.
	Identifier string
	Classes    map[string]struct{}
	// Pseudo holds the pseudo-class names currently active on the element
	// (e.g. "focus", "hover") as reported by the host application.
	Pseudo map[string]struct{}
	Attrs  map[string]string
	// Text is the element's own text content.
	Text string

	Parent      ID
	PrevSibling ID
	NextSibling ID
	FirstChild  ID
	LastChild   ID
}

// NewElement builds an unlinked element with the given type and classes.
func NewElement(typ string, classes ...string) Element {
	el := Element{
		Type:    strings.ToLower(typ),
		Classes: make(map[string]struct{}, len(classes)),
		Pseudo:  make(map[string]struct{}),
		Attrs:   make(map[string]string),
	}
	for _, c := range classes {
		if c != "" {
			el.Classes[c] = struct{}{}
		}
	}
	return el
}

// WithIdentifier sets the #id of the element.
func (e Element) WithIdentifier(id string) Element {
	e.Identifier = id
	return e
}

// WithAttr sets a single attribute.
func (e Element) WithAttr(name, value string) Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
	return e
}

// WithPseudo marks pseudo-classes as active.
func (e Element) WithPseudo(names ...string) Element {
	if e.Pseudo == nil {
		e.Pseudo = make(map[string]struct{})
	}
	for _, n := range names {
		e.Pseudo[n] = struct{}{}
	}
	return e
}

// WithText sets the element's own text.
func (e Element) WithText(s string) Element {
	e.Text = s
	return e
}

func (e *Element) HasClass(name string) bool {
	_, ok := e.Classes[name]
	return ok
}

func (e *Element) HasPseudo(name string) bool {
	_, ok := e.Pseudo[name]
	return ok
}

// Attr returns the attribute value and whether it is present. The identifier
// and class list are also visible as "id" and "class" attributes.
func (e *Element) Attr(name string) (string, bool) {
	if v, ok := e.Attrs[name]; ok {
		return v, true
	}
	switch name {
	case "id":
		if e.Identifier != "" {
			return e.Identifier, true
		}
	case "class":
		if len(e.Classes) > 0 {
			return strings.Join(e.SortedClasses(), " "), true
		}
	}
	return "", false
}

// SortedClasses returns the class set in lexical order.
func (e *Element) SortedClasses() []string {
	out := make([]string, 0, len(e.Classes))
	for c := range e.Classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Tree is an arena of elements linked by index. The zero value is an empty
// tree ready for use.
type Tree struct {
	nodes []Element
}

// NewTree returns an empty tree with room for n elements.
func NewTree(n int) *Tree {
	return &Tree{nodes: make([]Element, 0, n)}
}

// Add appends el as the last child of parent (or as a root when parent is
// NoID) and returns its ID.
func (t *Tree) Add(parent ID, el Element) ID {
	id := ID(len(t.nodes))
	el.Parent = NoID
	el.PrevSibling = NoID
	el.NextSibling = NoID
	el.FirstChild = NoID
	el.LastChild = NoID
	if el.Classes == nil {
		el.Classes = make(map[string]struct{})
	}
	if el.Pseudo == nil {
		el.Pseudo = make(map[string]struct{})
	}
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}

	if parent != NoID && t.valid(parent) {
		el.Parent = parent
		p := &t.nodes[parent]
		if p.LastChild != NoID {
			el.PrevSibling = p.LastChild
			t.nodes[p.LastChild].NextSibling = id
		} else {
			p.FirstChild = id
		}
		p.LastChild = id
	} else if root := t.lastRoot(); root != NoID {
		el.PrevSibling = root
		t.nodes[root].NextSibling = id
	}
	t.nodes = append(t.nodes, el)
	return id
}

func (t *Tree) lastRoot() ID {
	for i := len(t.nodes) - 1; i >= 0; i-- {
		if t.nodes[i].Parent == NoID {
			return ID(i)
		}
	}
	return NoID
}

func (t *Tree) valid(id ID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Get returns the element for id, or nil when id is out of range.
func (t *Tree) Get(id ID) *Element {
	if !t.valid(id) {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the first root element, or NoID for an empty tree.
func (t *Tree) Root() ID {
	if len(t.nodes) == 0 {
		return NoID
	}
	return 0
}

// Children lists the direct children of id in document order.
func (t *Tree) Children(id ID) []ID {
	el := t.Get(id)
	if el == nil {
		return nil
	}
	var out []ID
	for c := el.FirstChild; c != NoID; c = t.nodes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// Index reports the zero-based position of id among its siblings and the
// size of that sibling list.
func (t *Tree) Index(id ID) (index, count int) {
	el := t.Get(id)
	if el == nil {
		return -1, 0
	}
	for p := el.PrevSibling; p != NoID; p = t.nodes[p].PrevSibling {
		index++
	}
	count = index + 1
	for n := el.NextSibling; n != NoID; n = t.nodes[n].NextSibling {
		count++
	}
	return index, count
}

// Depth is the number of ancestors of id.
func (t *Tree) Depth(id ID) int {
	d := 0
	for el := t.Get(id); el != nil && el.Parent != NoID; el = t.Get(el.Parent) {
		d++
	}
	return d
}

// Walk visits every element in document order (pre-order, roots first to
// last). Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(id ID, el *Element) bool) {
	var visit func(id ID) bool
	visit = func(id ID) bool {
		if !fn(id, &t.nodes[id]) {
			return false
		}
		for c := t.nodes[id].FirstChild; c != NoID; c = t.nodes[c].NextSibling {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	for i := range t.nodes {
		if t.nodes[i].Parent == NoID {
			if !visit(ID(i)) {
				return
			}
		}
	}
}

// FindByIdentifier returns the first element whose Identifier equals id.
func (t *Tree) FindByIdentifier(id string) (ID, bool) {
	found := NoID
	t.Walk(func(i ID, el *Element) bool {
		if el.Identifier == id {
			found = i
			return false
		}
		return true
	})
	return found, found != NoID
}

// Path renders a short breadcrumb for id, e.g. "screen > box#hdr.warn".
func (t *Tree) Path(id ID) string {
	var parts []string
	for el := t.Get(id); el != nil; el = t.Get(el.Parent) {
		parts = append(parts, el.Label())
		if el.Parent == NoID {
			break
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// Label renders type#id.class1.class2 for display.
func (e *Element) Label() string {
	var b strings.Builder
	b.WriteString(e.Type)
	if e.Identifier != "" {
		b.WriteByte('#')
		b.WriteString(e.Identifier)
	}
	for _, c := range e.SortedClasses() {
		b.WriteByte('.')
		b.WriteString(c)
	}
	return b.String()
}
