// File: internal/css/style/media.go
package style

import (
	"strconv"
	"strings"

	"github.com/xkilldash9x/termstyle/internal/css/parser"
)

// Media describes the terminal a tree is being styled for.
type Media struct {
	Width       int
	Height      int
	ColorScheme string
	TrueColor   bool
}

// Matches reports whether every feature of q holds for m. Features the
// engine does not know are treated as satisfied.
func (m Media) Matches(q parser.MediaQuery) bool {
	for _, f := range q.Features {
		if !m.matchFeature(f) {
			return false
		}
	}
	return true
}

func (m Media) matchFeature(f parser.MediaFeature) bool {
	switch f.Name {
	case "min-width":
		n, ok := cells(f.Value)
		return ok && m.Width >= n
	case "max-width":
		n, ok := cells(f.Value)
		return ok && m.Width <= n
	case "min-height":
		n, ok := cells(f.Value)
		return ok && m.Height >= n
	case "max-height":
		n, ok := cells(f.Value)
		return ok && m.Height <= n
	case "color-scheme", "prefers-color-scheme":
		return strings.EqualFold(strings.TrimSpace(f.Value), m.ColorScheme)
	case "true-color":
		switch strings.ToLower(strings.TrimSpace(f.Value)) {
		case "", "true", "1", "yes":
			return m.TrueColor
		case "false", "0", "no":
			return !m.TrueColor
		}
		return false
	}
	return true
}

// cells parses a cell count such as "80", "80ch" or "80px".
func cells(v string) (int, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	for _, suffix := range []string{"cells", "ch", "px", "c"} {
		if strings.HasSuffix(v, suffix) {
			v = strings.TrimSpace(strings.TrimSuffix(v, suffix))
			break
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
