package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gerunddev/xmindtool/internal/convert"
	"github.com/gerunddev/xmindtool/internal/logger"
	"github.com/gerunddev/xmindtool/internal/styles"
)

func newWatchCmd(app *App) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <file> <text>",
		Short: "Update a package every time its outline text is saved",
		Long: `Watch keeps running and rewrites the package whenever the outline text
file changes. A save that does not parse leaves the package untouched
and the watch continues. Stop with Ctrl-C.`,
		Args: exactArgs("file", "text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = app.cfg.WatchDebounce
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := newTextWatcher(args[1], debounce)
			if err != nil {
				return err
			}
			w.SetLogger(app.log)
			defer w.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.Hint(fmt.Sprintf("watching %s (Ctrl-C to stop)", args[1])))

			return w.Run(ctx, func() {
				app.applyEdit(out, cmd.ErrOrStderr(), args[0], args[1])
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period after a change before updating")
	return cmd
}

// applyEdit runs one update for the watch loop. Failures are reported
// and never stop the loop.
func (a *App) applyEdit(out, errOut io.Writer, pkgPath, textPath string) {
	res, err := a.updatePackage(pkgPath, textPath)
	if err != nil {
		a.log.ConversionError(textPath, pkgPath, err)
		fmt.Fprintln(errOut, styles.Error(err.Error()))
		return
	}
	fmt.Fprintln(out, styles.Success(fmt.Sprintf("Updated: %s at %s", res.path, time.Now().Format(time.TimeOnly))))
}

// textWatcher fires after a file settles following writes
type textWatcher struct {
	target   string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *logger.Logger
}

// newTextWatcher watches the directory holding path, so editors that
// replace the file on save are still seen.
func newTextWatcher(path string, debounce time.Duration) (*textWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %s", convert.ErrFileNotFound, path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &textWatcher{
		target:   abs,
		debounce: debounce,
		watcher:  fw,
		logger:   logger.Discard(),
	}, nil
}

// SetLogger sets the logger for the watcher
func (w *textWatcher) SetLogger(l *logger.Logger) {
	w.logger = l
}

// Close stops watching
func (w *textWatcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange once per burst of writes to the target until ctx is
// done.
func (w *textWatcher) Run(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.WatchEvent(event.Name, event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)

		case <-fire:
			onChange()
		}
	}
}
