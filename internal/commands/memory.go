package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/xmindtool/internal/memory"
	"github.com/gerunddev/xmindtool/internal/styles"
)

func newMemoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "memory <file>",
		Short: "Print the outline text remembered for a package",
		Args:  exactArgs("file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgPath := args[0]

			text, err := app.store.Get(app.Session, pkgPath)
			if errors.Is(err, memory.ErrNotFound) {
				return &hintError{err: err, hint: "run parse first"}
			}
			if err != nil {
				return err
			}

			if stale, err := app.store.Stale(app.Session, pkgPath); err == nil && stale {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.Warning("package changed since this memory was saved"))
			}

			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
