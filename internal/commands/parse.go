package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/xmindtool/internal/export"
	"github.com/gerunddev/xmindtool/internal/outline"
)

const formatOutline = "outline"

func newParseCmd(app *App) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print a package as outline text",
		Long: `Parse decodes a .xmind package and prints it as outline text. The
outline is also saved as the session memory for the package, and its
location is printed on the final line.`,
		Args: exactArgs("file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgPath := args[0]

			var format export.Format
			if as != formatOutline {
				var err error
				if format, err = export.ParseFormat(as); err != nil {
					return &UsageError{Msg: err.Error()}
				}
			}

			doc, _, err := app.conv.Load(pkgPath)
			if err != nil {
				return err
			}

			text := outline.Encode(doc)
			memPath := app.remember(app.store, pkgPath, text)

			out := cmd.OutOrStdout()
			if as == formatOutline {
				fmt.Fprint(out, text)
				if memPath != "" {
					fmt.Fprintf(out, "\n<!-- memory_file: %s -->\n", memPath)
				}
				return nil
			}

			data, err := export.Render(doc, format)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&as, "as", formatOutline, "Output format: outline, yaml or json")
	return cmd
}
