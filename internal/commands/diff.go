package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/xmindtool/internal/diff"
	"github.com/gerunddev/xmindtool/internal/styles"
)

func newDiffCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "diff <file> <text>",
		Short: "Show what updating a package from text would change",
		Args:  exactArgs("file", "text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := diff.FormatRendered
			if plain {
				format = diff.FormatPlain
			}
			return app.showPreview(cmd.OutOrStdout(), args[0], args[1], format)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print a plain unified diff without styling")
	return cmd
}

// showPreview prints the outline diff an update of pkgPath would apply
func (a *App) showPreview(w io.Writer, pkgPath, textPath string, format diff.Format) error {
	p, err := a.conv.Preview(pkgPath, textPath)
	if err != nil {
		return err
	}

	if !p.Changed() {
		fmt.Fprintln(w, styles.Success("No changes: "+pkgPath))
		return nil
	}

	out, err := diff.Generate(pkgPath, textPath, p.Current, p.Proposed, format)
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	fmt.Fprintf(w, "%s (%s, %d sheets)\n", styles.Hint("would update "+pkgPath), p.Format, p.Sheets)
	return nil
}
