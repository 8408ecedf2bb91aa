// File: cmd/load.go
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/termstyle/internal/config"
	"github.com/xkilldash9x/termstyle/internal/css/parser"
	"github.com/xkilldash9x/termstyle/internal/css/style"
	"github.com/xkilldash9x/termstyle/internal/dom"
)

// loadStylesheets reads and parses every path concurrently, then merges the
// results in the order given so later files win cascade ties. Compressed
// stylesheets are read through openSource.
func loadStylesheets(ctx context.Context, logger *zap.Logger, paths []string) (*parser.Stylesheet, error) {
	sheets := make([]*parser.Stylesheet, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := readSource(path)
			if err != nil {
				return fmt.Errorf("failed to read stylesheet %s: %w", path, err)
			}
			// Parsers carry cursor state, so each file gets its own.
			sheets[i] = parser.New(logger).ParseSource(path, string(src))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := parser.Merge(sheets...)
	for _, d := range merged.Diagnostics {
		logger.Warn("Stylesheet diagnostic.", zap.String("diagnostic", d.Error()))
	}
	logger.Debug("Loaded stylesheets.",
		zap.Int("files", len(paths)),
		zap.Int("rules", len(merged.Rules)),
		zap.Int("media_blocks", len(merged.Media)),
		zap.Int("declarations", merged.DeclarationCount()),
		zap.Stringer("version", merged.Version),
	)
	return merged, nil
}

// loadMarkup parses path as XML when it has an .xml extension and as HTML
// otherwise. A .br or .gz suffix is looked through.
func loadMarkup(path string) (*dom.Tree, error) {
	f, name, err := openSource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open markup %s: %w", path, err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(name), ".xml") {
		return dom.ParseXML(f)
	}
	return dom.ParseHTML(f)
}

// mediaFlags are the terminal description flags shared by commands that
// evaluate @media blocks. Unset flags fall back to the media config.
type mediaFlags struct {
	width, height int
	colorScheme   string
	trueColor     bool
}

func (m *mediaFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&m.width, "width", 0, "terminal width in cells (default from config)")
	cmd.Flags().IntVar(&m.height, "height", 0, "terminal height in cells (default from config)")
	cmd.Flags().StringVar(&m.colorScheme, "color-scheme", "", "dark or light (default from config)")
	cmd.Flags().BoolVar(&m.trueColor, "true-color", false, "assume a 24-bit color terminal")
}

// apply pushes explicitly set flags into cfg and returns the effective media.
func (m *mediaFlags) apply(cmd *cobra.Command, cfg config.Interface) style.Media {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.SetMediaWidth(m.width)
	}
	if flags.Changed("height") {
		cfg.SetMediaHeight(m.height)
	}
	if flags.Changed("color-scheme") {
		cfg.SetMediaColorScheme(m.colorScheme)
	}
	if flags.Changed("true-color") {
		cfg.SetMediaTrueColor(m.trueColor)
	}
	mc := cfg.Media()
	return style.Media{Width: mc.Width, Height: mc.Height, ColorScheme: mc.ColorScheme, TrueColor: mc.TrueColor}
}

// newStyleEngine builds a style engine configured from cfg.
func newStyleEngine(sheet *parser.Stylesheet, cfg config.Interface, logger *zap.Logger) *style.Engine {
	return style.NewEngine(sheet,
		style.WithLogger(logger),
		style.WithMaxVariableDepth(cfg.Engine().MaxVariableDepth),
		style.WithInheritable(cfg.Engine().Inheritable...),
	)
}
