package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/xmindtool/internal/diff"
	"github.com/gerunddev/xmindtool/internal/styles"
)

func newUpdateCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "update <file> <text>",
		Short: "Rewrite a package from edited outline text",
		Long: `Update replaces the content of an existing .xmind package with the
sheets parsed from an outline text file. The package keeps its variant.
Nothing is written unless the text parses into at least one sheet.`,
		Args: exactArgs("file", "text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgPath, textPath := args[0], args[1]
			out := cmd.OutOrStdout()

			if dryRun {
				return app.showPreview(out, pkgPath, textPath, diff.FormatPlain)
			}

			res, err := app.updatePackage(pkgPath, textPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, styles.Success("Updated: "+res.path))
			if res.memPath != "" {
				fmt.Fprintf(out, "  Memory file: %s\n", res.memPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing the package")
	return cmd
}

type updateOutcome struct {
	path    string
	memPath string
}

// updatePackage writes the package and then records the text as memory
func (a *App) updatePackage(pkgPath, textPath string) (*updateOutcome, error) {
	res, err := a.conv.Update(pkgPath, textPath)
	if err != nil {
		return nil, err
	}
	a.log.Debug("update finished", "result", res.String())

	text, err := os.ReadFile(textPath)
	if err != nil {
		return nil, err
	}
	return &updateOutcome{
		path:    res.Path,
		memPath: a.remember(a.store, pkgPath, string(text)),
	}, nil
}
