// File: cmd/grid.go
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/termstyle/internal/css/selector"
	"github.com/xkilldash9x/termstyle/internal/css/style"
	"github.com/xkilldash9x/termstyle/internal/layout/grid"
	"github.com/xkilldash9x/termstyle/internal/observability"
)

// gridDocument is the --items file format. A document may carry only items,
// in which case the container comes from flags.
type gridDocument struct {
	Container grid.Container `yaml:"container"`
	Items     []grid.Item    `yaml:"items"`
}

type gridItemResult struct {
	Name       string `json:"name" yaml:"name"`
	Row        int    `json:"row" yaml:"row"`
	Column     int    `json:"column" yaml:"column"`
	RowSpan    int    `json:"row_span" yaml:"row_span"`
	ColumnSpan int    `json:"column_span" yaml:"column_span"`
	X          int    `json:"x" yaml:"x"`
	Y          int    `json:"y" yaml:"y"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
}

// gridAreaResult is a named area as grid lines; ends are exclusive.
type gridAreaResult struct {
	RowStart    int `json:"row_start" yaml:"row_start"`
	RowEnd      int `json:"row_end" yaml:"row_end"`
	ColumnStart int `json:"column_start" yaml:"column_start"`
	ColumnEnd   int `json:"column_end" yaml:"column_end"`
}

type gridResult struct {
	Columns []int                     `json:"columns" yaml:"columns"`
	Rows    []int                     `json:"rows" yaml:"rows"`
	Areas   map[string]gridAreaResult `json:"areas,omitempty" yaml:"areas,omitempty"`
	Items   []gridItemResult          `json:"items" yaml:"items"`
}

type gridOptions struct {
	container grid.Container
	itemsFile string
	count     int

	cssFiles    []string
	markup      string
	containerID string

	format string
	media  mediaFlags
}

func newGridCmd() *cobra.Command {
	var o gridOptions

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Place items on a grid and compute their rectangles",
		Long: `Computes a grid layout for a container of --width by --height cells.

The container comes either from flags (optionally combined with an --items
YAML file), or from a styled markup document: with --css, --markup and
--container, the children of the named element become the grid items.`,
		Example: `  termstyle grid --columns "20 1fr" --rows "3 1fr 1" --count 5 --width 80 --height 24
  termstyle grid --items layout.yaml --width 120 --format json
  termstyle grid --css app.css -m app.html --container main`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrid(cmd, &o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.container.Columns, "columns", "", "grid-template-columns track list")
	f.StringVar(&o.container.Rows, "rows", "", "grid-template-rows track list")
	f.StringVar(&o.container.Areas, "areas", "", `grid-template-areas, one row per line or quoted ("a a" "b c")`)
	f.IntVar(&o.container.Gap, "gap", 0, "gap between tracks in cells (default from config)")
	f.IntVar(&o.container.ColumnGap, "column-gap", 0, "gap between columns, overrides --gap")
	f.IntVar(&o.container.RowGap, "row-gap", 0, "gap between rows, overrides --gap")
	f.StringVar(&o.container.AutoFlow, "flow", "", "grid-auto-flow: row, column, row dense or column dense")
	f.StringVar(&o.container.AutoRows, "auto-rows", "", "track list for implicit rows")
	f.StringVar(&o.container.AutoColumns, "auto-columns", "", "track list for implicit columns")
	f.StringVar(&o.itemsFile, "items", "", "YAML file with items (and optionally the container)")
	f.IntVar(&o.count, "count", 0, "append this many auto-placed items")
	f.StringSliceVar(&o.cssFiles, "css", nil, "stylesheet files for markup mode (repeatable)")
	f.StringVarP(&o.markup, "markup", "m", "", "markup document for markup mode")
	f.StringVar(&o.containerID, "container", "", "identifier of the grid container element in markup mode")
	f.StringVarP(&o.format, "format", "f", "text", "output format: text, json or yaml")
	o.media.register(cmd)
	cmd.MarkFlagsRequiredTogether("markup", "container")
	return cmd
}

func runGrid(cmd *cobra.Command, o *gridOptions) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger := observability.GetLogger()
	m := o.media.apply(cmd, cfg)

	var (
		c     grid.Container
		items []grid.Item
	)
	if o.markup != "" {
		c, items, err = o.fromMarkup(cmd, logger, m)
	} else {
		c, items, err = o.fromFlags(cmd)
	}
	if err != nil {
		return err
	}
	if c.Gap == 0 && !cmd.Flags().Changed("gap") {
		c.Gap = cfg.Grid().DefaultGap
	}

	engine := grid.NewEngine(grid.WithLogger(logger), grid.WithMaxAutoRows(cfg.Grid().MaxAutoRows))
	res, err := engine.Layout(c, items, m.Width, m.Height)
	if err != nil {
		return err
	}
	return writeGrid(cmd.OutOrStdout(), o.format, items, res)
}

func (o *gridOptions) fromFlags(cmd *cobra.Command) (grid.Container, []grid.Item, error) {
	c := o.container
	var items []grid.Item
	if o.itemsFile != "" {
		doc, err := readGridDocument(o.itemsFile)
		if err != nil {
			return c, nil, err
		}
		// Flags win over the file's container.
		c = mergeContainer(doc.Container, o.container, cmd)
		items = doc.Items
	}
	for i := 0; i < o.count; i++ {
		items = append(items, grid.Item{Name: "item-" + strconv.Itoa(len(items)+1)})
	}
	return c, items, nil
}

func (o *gridOptions) fromMarkup(cmd *cobra.Command, logger *zap.Logger, m style.Media) (grid.Container, []grid.Item, error) {
	if len(o.cssFiles) == 0 {
		return grid.Container{}, nil, errors.New("markup mode needs at least one --css file")
	}
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return grid.Container{}, nil, err
	}
	sheet, err := loadStylesheets(cmd.Context(), logger, o.cssFiles)
	if err != nil {
		return grid.Container{}, nil, err
	}
	tree, err := loadMarkup(o.markup)
	if err != nil {
		return grid.Container{}, nil, err
	}
	id, ok := tree.FindByIdentifier(o.containerID)
	if !ok {
		return grid.Container{}, nil, fmt.Errorf("no element with identifier %q", o.containerID)
	}

	resolved := newStyleEngine(sheet, cfg, logger).ResolveTree(tree, m, selector.NewContext())
	c, items, _ := grid.FromTree(tree, id, resolved)
	logger.Debug("Grid container loaded from markup.",
		zap.String("container", tree.Path(id)),
		zap.Int("items", len(items)),
		zap.Stringer("stylesheet", sheet.Version),
	)
	return mergeContainer(c, o.container, cmd), items, nil
}

// mergeContainer overlays the explicitly set container flags onto base.
func mergeContainer(base, flags grid.Container, cmd *cobra.Command) grid.Container {
	set := cmd.Flags().Changed
	overlay := []struct {
		flag string
		dst  *string
		src  string
	}{
		{"columns", &base.Columns, flags.Columns},
		{"rows", &base.Rows, flags.Rows},
		{"areas", &base.Areas, flags.Areas},
		{"flow", &base.AutoFlow, flags.AutoFlow},
		{"auto-rows", &base.AutoRows, flags.AutoRows},
		{"auto-columns", &base.AutoColumns, flags.AutoColumns},
	}
	for _, o := range overlay {
		if set(o.flag) {
			*o.dst = o.src
		}
	}
	if set("gap") {
		base.Gap = flags.Gap
	}
	if set("column-gap") {
		base.ColumnGap = flags.ColumnGap
	}
	if set("row-gap") {
		base.RowGap = flags.RowGap
	}
	return base
}

func readGridDocument(path string) (gridDocument, error) {
	var doc gridDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("failed to read items file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse items file %s: %w", path, err)
	}
	return doc, nil
}

func newGridResult(items []grid.Item, res grid.Result) gridResult {
	out := gridResult{Columns: res.ColumnSizes, Rows: res.RowSizes, Items: make([]gridItemResult, len(items))}
	if len(res.Areas) > 0 {
		out.Areas = make(map[string]gridAreaResult, len(res.Areas))
		for name, a := range res.Areas {
			out.Areas[name] = gridAreaResult{RowStart: a.RowStart, RowEnd: a.RowEnd, ColumnStart: a.ColStart, ColumnEnd: a.ColEnd}
		}
	}
	for i, it := range items {
		p, r := res.Positions[i], res.Rects[i]
		name := it.Name
		if name == "" {
			name = "#" + strconv.Itoa(i+1)
		}
		out.Items[i] = gridItemResult{
			Name: name, Row: p.Row, Column: p.Column, RowSpan: p.RowSpan, ColumnSpan: p.ColumnSpan,
			X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
		}
	}
	return out
}

func writeGrid(w io.Writer, format string, items []grid.Item, res grid.Result) error {
	out := newGridResult(items, res)
	if format != "text" {
		return encode(w, format, out)
	}

	if _, err := fmt.Fprintf(w, "columns: %v\nrows: %v\n", out.Columns, out.Rows); err != nil {
		return err
	}
	for _, it := range out.Items {
		_, err := fmt.Fprintf(w, "%s: row %d/span %d, column %d/span %d -> %dx%d at (%d,%d)\n",
			it.Name, it.Row, it.RowSpan, it.Column, it.ColumnSpan, it.Width, it.Height, it.X, it.Y)
		if err != nil {
			return err
		}
	}
	return nil
}
