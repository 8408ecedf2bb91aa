// File: cmd/resolve.go
package cmd

import (
	"fmt"
	"io"
	"sort"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	tp "github.com/xlab/treeprint"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/termstyle/internal/css/selector"
	"github.com/xkilldash9x/termstyle/internal/css/style"
	"github.com/xkilldash9x/termstyle/internal/dom"
	"github.com/xkilldash9x/termstyle/internal/observability"
)

// resolvedElement is the serialized form of one element's computed style.
type resolvedElement struct {
	Path  string            `json:"path" yaml:"path"`
	Style map[string]string `json:"style" yaml:"style"`
}

// flattenedElement is one element's renderer-facing properties.
type flattenedElement struct {
	Path  string      `json:"path" yaml:"path"`
	Props style.Props `json:"props" yaml:"props"`
}

func newResolveCmd() *cobra.Command {
	var (
		cssFiles []string
		markup   string
		focus    string
		format   string
		media    mediaFlags
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Compute the cascaded style of every element in a markup document",
		Long: `Parses the given stylesheets, matches them against the markup tree and
prints the computed style of each element. @media blocks are evaluated against
the terminal described by --width, --height, --color-scheme and --true-color.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			sheet, err := loadStylesheets(ctx, logger, cssFiles)
			if err != nil {
				return err
			}
			tree, err := loadMarkup(markup)
			if err != nil {
				return err
			}

			sctx := selector.NewContext()
			if focus != "" {
				id, ok := tree.FindByIdentifier(focus)
				if !ok {
					return fmt.Errorf("no element with identifier %q", focus)
				}
				sctx.Focused = id
			}

			m := media.apply(cmd, cfg)
			resolved := newStyleEngine(sheet, cfg, logger).ResolveTree(tree, m, sctx)
			logger.Debug("Resolved styles.", zap.Int("elements", tree.Len()), zap.Int("width", m.Width), zap.Int("height", m.Height))

			return writeResolved(cmd.OutOrStdout(), format, tree, resolved)
		},
	}

	cmd.Flags().StringSliceVar(&cssFiles, "css", nil, "stylesheet files, later files win ties (repeatable)")
	cmd.Flags().StringVarP(&markup, "markup", "m", "", "markup document to style")
	cmd.Flags().StringVar(&focus, "focus", "", "identifier of the element holding input focus")
	cmd.Flags().StringVarP(&format, "format", "f", "tree", "output format: tree, json, yaml, props or preview")
	media.register(cmd)
	_ = cmd.MarkFlagRequired("css")
	_ = cmd.MarkFlagRequired("markup")
	return cmd
}

func writeResolved(w io.Writer, format string, t *dom.Tree, resolved []style.Resolved) error {
	switch format {
	case "tree":
		_, err := io.WriteString(w, styleTree(t, resolved).String())
		return err
	case "json", "yaml":
		out := make([]resolvedElement, 0, t.Len())
		t.Walk(func(id dom.ID, _ *dom.Element) bool {
			out = append(out, resolvedElement{Path: t.Path(id), Style: flat(resolved[id])})
			return true
		})
		return encode(w, format, out)
	case "props":
		out := make([]flattenedElement, 0, t.Len())
		t.Walk(func(id dom.ID, _ *dom.Element) bool {
			out = append(out, flattenedElement{Path: t.Path(id), Props: style.Flatten(resolved[id])})
			return true
		})
		return encode(w, "json", out)
	case "preview":
		return writePreview(w, t, resolved)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writePreview renders the text of every displayed element with its
// terminal style, one element per line. display: none hides the subtree.
func writePreview(w io.Writer, t *dom.Tree, resolved []style.Resolved) error {
	var visit func(id dom.ID) error
	visit = func(id dom.ID) error {
		p := style.Flatten(resolved[id])
		if p.Display == "none" {
			return nil
		}
		if el := t.Get(id); p.Visible && el.Text != "" {
			if _, err := fmt.Fprintln(w, p.TerminalStyle().Render(el.Text)); err != nil {
				return err
			}
		}
		for _, child := range t.Children(id) {
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}
	for id := t.Root(); id != dom.NoID; id = t.Get(id).NextSibling {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// styleTree mirrors the element tree, with one leaf per resolved property.
func styleTree(t *dom.Tree, resolved []style.Resolved) tp.Tree {
	root := tp.New()
	var add func(parent tp.Tree, id dom.ID)
	add = func(parent tp.Tree, id dom.ID) {
		branch := parent.AddBranch(t.Get(id).Label())
		for _, prop := range sortedProps(resolved[id]) {
			e := resolved[id][prop]
			leaf := prop + ": " + e.Value()
			if e.Important {
				leaf += " !important"
			}
			branch.AddNode(leaf)
		}
		for _, child := range t.Children(id) {
			add(branch, child)
		}
	}
	if r := t.Root(); r != dom.NoID {
		for id := r; id != dom.NoID; id = t.Get(id).NextSibling {
			add(root, id)
		}
	}
	return root
}

func sortedProps(r style.Resolved) []string {
	props := make([]string, 0, len(r))
	for p := range r {
		props = append(props, p)
	}
	sort.Strings(props)
	return props
}

func flat(r style.Resolved) map[string]string {
	m := make(map[string]string, len(r))
	for p, e := range r {
		m[p] = e.Value()
	}
	return m
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
