// File: internal/css/style/props_test.go
package style

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/termstyle/internal/css/parser"
)

func resolvedFrom(decls map[string]string) Resolved {
	r := Resolved{}
	for k, v := range decls {
		r[k] = Entry{Values: parser.SplitValues(v)}
	}
	return r
}

func TestMediaMatches(t *testing.T) {
	m := Media{Width: 100, Height: 30, ColorScheme: "dark", TrueColor: true}
	tests := []struct {
		name     string
		features []parser.MediaFeature
		want     bool
	}{
		{"no features", nil, true},
		{"min-width met", []parser.MediaFeature{{Name: "min-width", Value: "100"}}, true},
		{"min-width unmet", []parser.MediaFeature{{Name: "min-width", Value: "101"}}, false},
		{"max-width with unit", []parser.MediaFeature{{Name: "max-width", Value: "120ch"}}, true},
		{"min-height", []parser.MediaFeature{{Name: "min-height", Value: "31"}}, false},
		{"max-height", []parser.MediaFeature{{Name: "max-height", Value: "30px"}}, true},
		{"bad number", []parser.MediaFeature{{Name: "min-width", Value: "wide"}}, false},
		{"color scheme", []parser.MediaFeature{{Name: "color-scheme", Value: "DARK"}}, true},
		{"color scheme mismatch", []parser.MediaFeature{{Name: "color-scheme", Value: "light"}}, false},
		{"true color flag", []parser.MediaFeature{{Name: "true-color"}}, true},
		{"true color false", []parser.MediaFeature{{Name: "true-color", Value: "false"}}, false},
		{"unknown feature passes", []parser.MediaFeature{{Name: "orientation", Value: "landscape"}}, true},
		{"conjunction", []parser.MediaFeature{
			{Name: "min-width", Value: "80"},
			{Name: "color-scheme", Value: "light"},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(parser.MediaQuery{Features: tt.features}))
		})
	}
}

func TestFlatten(t *testing.T) {
	p := Flatten(resolvedFrom(map[string]string{
		"color":           "yellow",
		"background":      "#101010",
		"bold":            "true",
		"dim":             "false",
		"text-decoration": "underline line-through",
		"font-style":      "italic",
		"visibility":      "hidden",
		"width":           "20",
		"height":          "5ch",
		"padding":         "1 2",
		"padding-left":    "4",
		"margin":          "1 2 3",
		"border":          "round cyan",
		"gap":             "1",
		"text-align":      "center",
	}))

	assert.Equal(t, Props{
		Foreground:    "yellow",
		Background:    "#101010",
		Bold:          true,
		Italic:        true,
		Underline:     true,
		Strikethrough: true,
		Visible:       false,
		Display:       "block",
		Width:         20,
		Height:        5,
		Padding:       Edges{Top: 1, Right: 2, Bottom: 1, Left: 4},
		Margin:        Edges{Top: 1, Right: 2, Bottom: 3, Left: 2},
		BorderStyle:   "round",
		BorderColor:   "cyan",
		Gap:           1,
		TextAlign:     "center",
	}, p)
}

func TestFlatten_Defaults(t *testing.T) {
	p := Flatten(nil)
	assert.True(t, p.Visible)
	assert.Equal(t, "block", p.Display)
	assert.Equal(t, Edges{}, p.Padding)

	p = Flatten(resolvedFrom(map[string]string{
		"font-weight":      "700",
		"margin":           "1 2 3 4",
		"border-style":     "double",
		"border-color":     "red",
		"background-color": "blue",
		"display":          "none",
		"width":            "auto",
	}))
	assert.True(t, p.Bold)
	assert.Equal(t, Edges{1, 2, 3, 4}, p.Margin)
	assert.Equal(t, "double", p.BorderStyle)
	assert.Equal(t, "red", p.BorderColor)
	assert.Equal(t, "blue", p.Background)
	assert.Equal(t, "none", p.Display)
	assert.Zero(t, p.Width)
}

func TestTerminalStyle(t *testing.T) {
	p := Props{
		Foreground:  "yellow",
		Background:  "#101010",
		Bold:        true,
		Underline:   true,
		Width:       20,
		Padding:     Edges{1, 2, 1, 2},
		BorderStyle: "round",
		BorderColor: "bright-cyan",
		TextAlign:   "center",
	}
	s := p.TerminalStyle()

	assert.True(t, s.GetBold())
	assert.True(t, s.GetUnderline())
	assert.False(t, s.GetItalic())
	assert.Equal(t, lipgloss.Color("3"), s.GetForeground())
	assert.Equal(t, lipgloss.Color("#101010"), s.GetBackground())
	assert.Equal(t, 20, s.GetWidth())
	top, right, bottom, left := s.GetPadding()
	assert.Equal(t, [4]int{1, 2, 1, 2}, [4]int{top, right, bottom, left})
	assert.Equal(t, lipgloss.RoundedBorder(), s.GetBorderStyle())
	assert.Equal(t, lipgloss.Color("14"), s.GetBorderTopForeground())
	assert.Equal(t, lipgloss.Center, s.GetAlign())
}

func TestTerminalStyle_NoBorder(t *testing.T) {
	s := Props{BorderStyle: "none", Foreground: "default"}.TerminalStyle()
	assert.Equal(t, lipgloss.Border{}, s.GetBorderStyle())
	assert.Equal(t, lipgloss.NoColor{}, s.GetForeground())
}
