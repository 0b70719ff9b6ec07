// Package commands implements the xmind-tool command line.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gerunddev/xmindtool/internal/config"
	"github.com/gerunddev/xmindtool/internal/convert"
	"github.com/gerunddev/xmindtool/internal/logger"
	"github.com/gerunddev/xmindtool/internal/memory"
	"github.com/gerunddev/xmindtool/internal/styles"
)

// Version is the released version of xmind-tool
const Version = "1.0.0"

// sessionOptional marks commands that run without --session
const sessionOptional = "session-optional"

// App holds state shared by all commands of one invocation
type App struct {
	Session    string
	Verbose    bool
	ConfigPath string

	cfg      *config.Config
	log      *logger.Logger
	closeLog func()
	conv     *convert.Converter
	store    *memory.FSStore
}

// Close releases resources opened while running a command
func (a *App) Close() {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

// UsageError reports a command invoked incorrectly
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xmind-tool",
		Short: "Convert XMind mind maps to editable outlines and back",
		Long: `xmind-tool turns .xmind packages (zen and legacy) into a plain-text
outline, and writes edited outlines back into the original package format.`,
		Example: strings.TrimSpace(`
  xmind-tool --session abc parse plan.xmind > plan.md
  xmind-tool --session abc update plan.xmind plan.md
  xmind-tool --session abc create new.xmind outline.md legacy
  xmind-tool --session abc memory plan.xmind
`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !needsSetup(cmd) {
			return nil
		}
		return app.setup(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Session, "session", envOr(config.EnvSession, ""), "Session id that scopes the memory files (required)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to the config file")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})

	cmd.AddCommand(newParseCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newMemoryCmd(app))
	cmd.AddCommand(newDiffCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration and wires the logger, converter and memory store
func (a *App) setup(cmd *cobra.Command) error {
	if strings.TrimSpace(a.Session) == "" {
		return usageErrorf("missing required flag --session <id>")
	}
	if err := memory.ValidateSession(a.Session); err != nil {
		return &UsageError{Msg: err.Error()}
	}

	cfgPath := a.ConfigPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	var err error
	a.cfg, err = config.LoadFile(cfgPath)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.Verbose {
		level = log.DebugLevel
	}

	if a.cfg.LogFile != "" {
		a.log, a.closeLog, err = logger.NewFileLogger(a.cfg.LogFile, level)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	} else {
		a.log = logger.NewWithLevel(cmd.ErrOrStderr(), level)
	}
	a.log.ConfigLoaded(cfgPath, a.cfg.MemoryDir)

	a.conv = convert.NewConverter()
	a.conv.SetLogger(a.log)
	a.store = memory.NewFSStore(a.cfg.MemoryDir)
	return nil
}

// remember records text as the memory of pkgPath. Memory is advisory:
// failures are logged and an empty path is returned.
func (a *App) remember(store memory.Store, pkgPath, text string) string {
	memPath, err := store.Put(a.Session, pkgPath, text)
	if err != nil {
		a.log.MemoryError("put", err)
		return ""
	}
	a.log.MemorySaved(a.Session, pkgPath, memPath)
	return memPath
}

// Execute runs the command line and reports any error on stderr
func Execute() error {
	app := &App{}
	defer app.Close()

	root := newRootCmd(app)
	cmd, err := root.ExecuteC()
	if err != nil {
		report(os.Stderr, cmd, err)
	}
	return err
}

// hintError carries a suggestion printed below the error
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

func report(w io.Writer, cmd *cobra.Command, err error) {
	fmt.Fprintln(w, styles.Error(err.Error()))

	var he *hintError
	if errors.As(err, &he) {
		fmt.Fprintln(w, styles.Hint(he.hint))
	}

	var ue *UsageError
	if errors.As(err, &ue) && cmd != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, cmd.UsageString())
	}
}

// needsSetup reports whether cmd works on packages. Help, completion and
// version run without a session.
func needsSetup(cmd *cobra.Command) bool {
	if cmd.Annotations[sessionOptional] == "true" || cmd.Name() == "help" {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" || c.Name() == cobra.ShellCompRequestCmd {
			return false
		}
	}
	return true
}

// exactArgs is cobra.ExactArgs reporting a UsageError naming the arguments
func exactArgs(names ...string) cobra.PositionalArgs {
	return rangeArgs(len(names), names...)
}

// rangeArgs accepts the names as positional arguments, the first min of
// them required.
func rangeArgs(min int, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min {
			return usageErrorf("missing argument <%s>", names[len(args)])
		}
		if len(args) > len(names) {
			return usageErrorf("unexpected argument %q", args[len(names)])
		}
		return nil
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
