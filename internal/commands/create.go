package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/xmindtool/internal/archive"
	"github.com/gerunddev/xmindtool/internal/styles"
)

func newCreateCmd(app *App) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "create <output> <input-text> [zen|legacy]",
		Short: "Write a new package from outline text",
		Long: `Create builds a new .xmind package from an outline text file. The
package variant is zen unless legacy is given, either as the third
argument or with --format. The default can be changed in the config file.`,
		Args: rangeArgs(2, "output", "input-text", "format"),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, textPath := args[0], args[1]

			format, err := createFormat(app.cfg.DefaultFormat, formatFlag, args)
			if err != nil {
				return err
			}

			res, err := app.conv.Create(outPath, textPath, format)
			if err != nil {
				return err
			}

			text, err := os.ReadFile(textPath)
			if err != nil {
				return err
			}
			memPath := app.remember(app.store, outPath, string(text))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.Success("Created: "+res.Path))
			fmt.Fprintf(out, "  Format: %s\n", res.Format)
			if memPath != "" {
				fmt.Fprintf(out, "  Memory file: %s\n", memPath)
			}
			app.log.Debug("create finished", "result", res.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Package variant: zen or legacy")
	return cmd
}

// createFormat resolves the variant from the positional argument, the
// --format flag and the configured default, in that order.
func createFormat(def archive.Format, flag string, args []string) (archive.Format, error) {
	var positional string
	if len(args) > 2 {
		positional = args[2]
	}
	if positional != "" && flag != "" && positional != flag {
		return "", usageErrorf("format given twice: %q and --format %q", positional, flag)
	}

	raw := positional
	if raw == "" {
		raw = flag
	}
	if raw == "" {
		return def, nil
	}

	format, err := archive.ParseFormat(raw)
	if err != nil {
		return "", &UsageError{Msg: err.Error()}
	}
	return format, nil
}
