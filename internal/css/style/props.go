// File: internal/css/style/props.go
package style

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Edges holds per-side cell counts in CSS order.
type Edges struct {
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
}

// Props is the flattened, renderer-facing view of a resolved style.
type Props struct {
	Foreground string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`

	Bold          bool `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty" yaml:"underline,omitempty"`
	Dim           bool `json:"dim,omitempty" yaml:"dim,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty" yaml:"strikethrough,omitempty"`
	Reverse       bool `json:"reverse,omitempty" yaml:"reverse,omitempty"`
	Blink         bool `json:"blink,omitempty" yaml:"blink,omitempty"`

	Visible bool   `json:"visible" yaml:"visible"`
	Display string `json:"display" yaml:"display"`

	// Width and Height are fixed cell sizes; 0 means auto.
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`

	Padding Edges `json:"padding" yaml:"padding"`
	Margin  Edges `json:"margin" yaml:"margin"`

	BorderStyle string `json:"border_style,omitempty" yaml:"border_style,omitempty"`
	BorderColor string `json:"border_color,omitempty" yaml:"border_color,omitempty"`

	Gap       int    `json:"gap,omitempty" yaml:"gap,omitempty"`
	TextAlign string `json:"text_align,omitempty" yaml:"text_align,omitempty"`
}

// Flatten maps a resolved style onto Props, expanding margin and padding
// shorthands and folding text decoration keywords into the boolean flags.
func Flatten(r Resolved) Props {
	p := Props{Visible: true, Display: "block"}

	p.Foreground = r.Get("color")
	p.Background = r.Get("background")
	if v := r.Get("background-color"); v != "" {
		p.Background = v
	}

	for _, flag := range []struct {
		prop string
		dst  *bool
	}{
		{"bold", &p.Bold},
		{"italic", &p.Italic},
		{"underline", &p.Underline},
		{"dim", &p.Dim},
		{"strikethrough", &p.Strikethrough},
		{"reverse", &p.Reverse},
		{"blink", &p.Blink},
	} {
		if v, ok := r[flag.prop]; ok {
			*flag.dst = truthy(v.Value())
		}
	}

	if w := r.Get("font-weight"); w == "bold" || w == "bolder" || atLeast(w, 600) {
		p.Bold = true
	}
	if s := r.Get("font-style"); s == "italic" || s == "oblique" {
		p.Italic = true
	}
	for _, prop := range []string{"text-decoration", "text-style"} {
		for _, v := range r[prop].Values {
			switch v {
			case "underline":
				p.Underline = true
			case "line-through", "strike", "strikethrough":
				p.Strikethrough = true
			case "bold":
				p.Bold = true
			case "italic":
				p.Italic = true
			case "dim":
				p.Dim = true
			case "reverse":
				p.Reverse = true
			case "blink":
				p.Blink = true
			}
		}
	}

	if v := r.Get("visibility"); v == "hidden" || v == "collapse" {
		p.Visible = false
	}
	if v := r.Get("display"); v != "" {
		p.Display = v
	}

	p.Width = cellValue(r.Get("width"))
	p.Height = cellValue(r.Get("height"))
	p.Gap = cellValue(r.Get("gap"))
	p.TextAlign = r.Get("text-align")

	p.Padding = boxEdges(r, "padding")
	p.Margin = boxEdges(r, "margin")

	for _, v := range r["border"].Values {
		if isBorderStyle(v) {
			p.BorderStyle = v
		} else {
			p.BorderColor = v
		}
	}
	if v := r.Get("border-style"); v != "" {
		p.BorderStyle = v
	}
	if v := r.Get("border-color"); v != "" {
		p.BorderColor = v
	}
	return p
}

// boxEdges expands the 1 to 4 value shorthand for prop, then applies any
// per-side longhands (padding-top, ...).
func boxEdges(r Resolved, prop string) Edges {
	var e Edges
	vals := r[prop].Values
	n := make([]int, len(vals))
	for i, v := range vals {
		n[i] = cellValue(v)
	}
	switch len(n) {
	case 1:
		e = Edges{n[0], n[0], n[0], n[0]}
	case 2:
		e = Edges{n[0], n[1], n[0], n[1]}
	case 3:
		e = Edges{n[0], n[1], n[2], n[1]}
	case 4:
		e = Edges{n[0], n[1], n[2], n[3]}
	}
	for side, dst := range map[string]*int{"top": &e.Top, "right": &e.Right, "bottom": &e.Bottom, "left": &e.Left} {
		if entry, ok := r[prop+"-"+side]; ok {
			*dst = cellValue(entry.Value())
		}
	}
	return e
}

func cellValue(v string) int {
	n, ok := cells(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func atLeast(v string, threshold int) bool {
	n, err := strconv.Atoi(v)
	return err == nil && n >= threshold
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "", "false", "0", "no", "off", "none":
		return false
	}
	return true
}

func isBorderStyle(v string) bool {
	switch v {
	case "none", "hidden", "solid", "round", "rounded", "double", "thick", "heavy", "block", "ascii", "normal":
		return true
	}
	return false
}

var namedColors = map[string]string{
	"black":          "0",
	"red":            "1",
	"green":          "2",
	"yellow":         "3",
	"blue":           "4",
	"magenta":        "5",
	"cyan":           "6",
	"white":          "7",
	"bright-black":   "8",
	"gray":           "8",
	"grey":           "8",
	"bright-red":     "9",
	"bright-green":   "10",
	"bright-yellow":  "11",
	"bright-blue":    "12",
	"bright-magenta": "13",
	"bright-cyan":    "14",
	"bright-white":   "15",
}

// terminalColor converts a named, numeric or hex color for lipgloss.
func terminalColor(v string) lipgloss.TerminalColor {
	v = strings.ToLower(strings.TrimSpace(v))
	if code, ok := namedColors[v]; ok {
		return lipgloss.Color(code)
	}
	if v == "" || v == "default" || v == "transparent" || v == "none" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(v)
}

func lipglossBorder(name string) (lipgloss.Border, bool) {
	switch name {
	case "round", "rounded":
		return lipgloss.RoundedBorder(), true
	case "solid", "normal", "ascii":
		return lipgloss.NormalBorder(), true
	case "double":
		return lipgloss.DoubleBorder(), true
	case "thick", "heavy":
		return lipgloss.ThickBorder(), true
	case "block":
		return lipgloss.BlockBorder(), true
	case "hidden":
		return lipgloss.HiddenBorder(), true
	}
	return lipgloss.Border{}, false
}

// TerminalStyle hands the props to the renderer as a lipgloss style. Only
// the style value is built; nothing is rendered here. Visibility and display
// are left to the renderer.
func (p Props) TerminalStyle() lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(p.Bold).
		Italic(p.Italic).
		Underline(p.Underline).
		Faint(p.Dim).
		Strikethrough(p.Strikethrough).
		Reverse(p.Reverse).
		Blink(p.Blink).
		Padding(p.Padding.Top, p.Padding.Right, p.Padding.Bottom, p.Padding.Left).
		Margin(p.Margin.Top, p.Margin.Right, p.Margin.Bottom, p.Margin.Left)

	if p.Foreground != "" {
		s = s.Foreground(terminalColor(p.Foreground))
	}
	if p.Background != "" {
		s = s.Background(terminalColor(p.Background))
	}
	if p.Width > 0 {
		s = s.Width(p.Width)
	}
	if p.Height > 0 {
		s = s.Height(p.Height)
	}
	if b, ok := lipglossBorder(p.BorderStyle); ok {
		s = s.Border(b)
		if p.BorderColor != "" {
			s = s.BorderForeground(terminalColor(p.BorderColor))
		}
	}
	switch p.TextAlign {
	case "center":
		s = s.Align(lipgloss.Center)
	case "right", "end":
		s = s.Align(lipgloss.Right)
	case "left", "start":
		s = s.Align(lipgloss.Left)
	}
	return s
}
