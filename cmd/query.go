// File: cmd/query.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/termstyle/internal/css/selector"
	"github.com/xkilldash9x/termstyle/internal/observability"
)

func newQueryCmd() *cobra.Command {
	var (
		markup string
		focus  string
	)

	cmd := &cobra.Command{
		Use:   "query [selector]",
		Short: "List the elements of a markup document matched by a selector",
		Example: `  termstyle query -m app.html 'screen > box.panel:first-child'
  termstyle query -m app.html --focus search 'input:focus'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
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

			ids, warnings := selector.QueryString(tree, args[0], sctx)
			for _, w := range warnings {
				logger.Warn("Selector warning.", zap.String("selector", args[0]), zap.String("warning", w))
				cmd.PrintErrln("warning:", w)
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), tree.Path(id))
			}
			logger.Debug("Query finished.", zap.String("selector", args[0]), zap.Int("matches", len(ids)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&markup, "markup", "m", "", "markup document to search")
	cmd.Flags().StringVar(&focus, "focus", "", "identifier of the element holding input focus")
	_ = cmd.MarkFlagRequired("markup")
	return cmd
}
