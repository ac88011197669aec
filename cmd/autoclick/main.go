// Package main provides the CLI entrypoint for autoclick.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"
	"autoclick/internal/history"
	"autoclick/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type options struct {
	configPath string
	logLevel   string
	device     string
	useTUI     bool
	start      bool
	once       bool
	noHistory  bool

	button     string
	stop       string
	stopValue  float64
	stopUnit   string
	delay      string
	delayValue float64
	delayMin   float64
	delayMax   float64
	delayUnit  string
	strictMin  bool
	position   string
	rect       string
	toggle     string
	backend    string
}

// usageError marks failures caused by flags or configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "autoclick:", err)
	var uerr usageError
	if errors.As(err, &uerr) || errors.Is(err, autoclicker.ErrInvalidConfig) || errors.Is(err, autoclicker.ErrInvalidKeySequence) {
		return 2
	}
	if isPermissionError(err) {
		fmt.Fprintln(stderr, permissionDeniedHint())
	}
	return 1
}

func newRootCmd() *cobra.Command {
	o := &options{}
	def := config.Defaults()

	rootCmd := &cobra.Command{
		Use:           "autoclick",
		Short:         "Repeating mouse clicker with a toggle hotkey",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClicker(cmd, o)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", config.DefaultConfigPath(), "config file (.toml, .yaml or .yml)")
	pf.StringVar(&o.logLevel, "log-level", "info", "log verbosity: debug, info, warning, error")

	f := rootCmd.Flags()
	f.StringVar(&o.button, "button", def.Button, "mouse button: left|right")
	f.StringVar(&o.stop, "stop", def.Stop.Mode, "stop condition: forever|count|duration")
	f.Float64Var(&o.stopValue, "stop-value", def.Stop.Value, "click count, or duration in --stop-unit")
	f.StringVar(&o.stopUnit, "stop-unit", def.Stop.Unit, "duration unit: ms|s|min")
	f.StringVar(&o.delay, "delay", def.Delay.Mode, "delay mode: fixed|random")
	f.Float64Var(&o.delayValue, "delay-value", def.Delay.Value, "fixed delay between clicks")
	f.Float64Var(&o.delayMin, "delay-min", def.Delay.Min, "random delay lower bound (inclusive)")
	f.Float64Var(&o.delayMax, "delay-max", def.Delay.Max, "random delay upper bound (exclusive)")
	f.StringVar(&o.delayUnit, "delay-unit", def.Delay.Unit, "delay unit: ms|s|min")
	f.BoolVar(&o.strictMin, "strict-min", def.Delay.StrictMin, "treat a random range starting at 0 as invalid")
	f.StringVar(&o.position, "position", def.Position.Mode, "click position: cursor|rectangle")
	f.StringVar(&o.rect, "rect", config.FormatRect(def.Position.Rect), "rectangle corners x1,y1,x2,y2 (implies --position rectangle)")
	f.StringVar(&o.toggle, "toggle", def.Toggle, "start/stop key sequence, e.g. F1 or Ctrl+Shift+F6")
	f.StringVar(&o.backend, "backend", def.Backend, "input backend: auto|x11|windows|dry-run")
	f.StringVar(&o.device, "device", "", "keyboard event device for the local toggle key (Linux), e.g. /dev/input/event3")
	f.BoolVar(&o.useTUI, "tui", true, "show the status view when attached to a terminal")
	f.BoolVar(&o.start, "start", false, "start clicking immediately")
	f.BoolVar(&o.once, "once", false, "exit after the first session ends")
	f.BoolVar(&o.noHistory, "no-history", false, "do not record sessions")

	rootCmd.AddCommand(newConfigCmd(o))
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newKeysCmd(o))
	rootCmd.AddCommand(newDevicesCmd())

	return rootCmd
}

// flagOverrides applies flags the user set explicitly, so unset flags do
// not mask file or environment values.
func flagOverrides(cmd *cobra.Command, o *options) func(*config.Settings) error {
	return func(s *config.Settings) error {
		applyStringFlag(cmd, "button", &s.Button, o.button)
		applyStringFlag(cmd, "stop", &s.Stop.Mode, o.stop)
		applyFloatFlag(cmd, "stop-value", &s.Stop.Value, o.stopValue)
		applyStringFlag(cmd, "stop-unit", &s.Stop.Unit, o.stopUnit)
		applyStringFlag(cmd, "delay", &s.Delay.Mode, o.delay)
		applyFloatFlag(cmd, "delay-value", &s.Delay.Value, o.delayValue)
		applyFloatFlag(cmd, "delay-min", &s.Delay.Min, o.delayMin)
		applyFloatFlag(cmd, "delay-max", &s.Delay.Max, o.delayMax)
		applyStringFlag(cmd, "delay-unit", &s.Delay.Unit, o.delayUnit)
		applyBoolFlag(cmd, "strict-min", &s.Delay.StrictMin, o.strictMin)
		applyStringFlag(cmd, "position", &s.Position.Mode, o.position)
		applyStringFlag(cmd, "toggle", &s.Toggle, o.toggle)
		applyStringFlag(cmd, "backend", &s.Backend, o.backend)
		if cmd.Flags().Changed("no-history") {
			s.History = !o.noHistory
		}
		if cmd.Flags().Changed("rect") {
			rect, err := config.ParseRect(o.rect)
			if err != nil {
				return err
			}
			s.Position.Rect = rect
			if !cmd.Flags().Changed("position") {
				s.Position.Mode = "rectangle"
			}
		}
		return nil
	}
}

func applyStringFlag(cmd *cobra.Command, name string, dst *string, value string) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

func applyFloatFlag(cmd *cobra.Command, name string, dst *float64, value float64) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

func applyBoolFlag(cmd *cobra.Command, name string, dst *bool, value bool) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

func settingsLoader(cmd *cobra.Command, o *options) config.Loader {
	return func() (config.Settings, error) {
		return config.Load(config.Sources{
			File:      o.configPath,
			DotEnv:    []string{".env", config.DefaultEnvPath()},
			Overrides: flagOverrides(cmd, o),
		})
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runClicker(cmd *cobra.Command, o *options) error {
	level, err := parseLogLevel(o.logLevel)
	if err != nil {
		return usageError{err}
	}

	useTUI := o.useTUI && isTerminal(os.Stdin) && isTerminal(cmd.OutOrStdout())
	var feed chan string
	var sink func(string)
	if useTUI {
		feed = make(chan string, 64)
		sink = func(line string) {
			select {
			case feed <- line:
			default:
			}
		}
	}
	logger := newSlogLogger(level, sink)

	load := settingsLoader(cmd, o)
	settings, err := load()
	if err != nil {
		return usageError{err}
	}
	store, err := config.NewStore(settings, load)
	if err != nil {
		return err
	}

	plat, err := openPlatform(settings.Backend, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := plat.Close(); cerr != nil {
			logger.Warn("Failed to close backend", "err", cerr)
		}
	}()

	scheduler, err := autoclicker.NewScheduler(autoclicker.SchedulerDeps{
		Config:   store,
		Effector: plat.effector,
		Cursor:   plat.cursor,
		Screen:   plat.screen,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	router := &noticeRouter{logger: logger}
	if settings.History {
		hist, err := history.Open(config.DefaultHistoryPath())
		if err != nil {
			logger.Warn("Session history disabled", "err", err)
		} else {
			defer hist.Close()
			router.recorder = hist
		}
	}
	if o.once {
		router.ended = cancel
	}
	stopRouter := make(chan struct{})
	routerDone := make(chan struct{})
	go func() {
		defer close(routerDone)
		router.run(scheduler.Notices(), stopRouter)
	}()
	defer func() {
		scheduler.Shutdown()
		close(stopRouter)
		<-routerDone
	}()

	toggle, err := autoclicker.NewToggleController(scheduler, plat.registrar, logger, autoclicker.WithNoticeSink(scheduler.Publish))
	if err != nil {
		return err
	}
	defer toggle.Close()
	if err := toggle.Assign(settings.Toggle); err != nil {
		return usageError{err}
	}
	plat.Start()

	watching := false
	if watchLocalKeys(useTUI, o.device) {
		closeKeys, err := startLocalKeys(o.device, toggle, logger)
		switch {
		case err != nil && o.device != "":
			return err
		case err != nil:
			if !toggle.HotkeyActive() {
				logger.Warn("Keyboard watcher unavailable", "err", err)
				if isPermissionError(err) {
					logger.Warn(permissionDeniedHint())
				}
			}
		case closeKeys != nil:
			watching = true
			defer closeKeys()
		}
	}

	if o.start {
		scheduler.Start()
	}

	if useTUI {
		var tuiToggle tui.Toggle = toggle
		if watching {
			tuiToggle = watchedToggle{toggle}
		}
		return runTUI(ctx, scheduler, tuiToggle, store, feed)
	}

	logger.Info("Ready",
		"toggle", toggle.Binding().String(),
		"global", toggle.HotkeyActive(),
		"backend", plat.name,
	)
	<-ctx.Done()
	return nil
}

func runTUI(ctx context.Context, scheduler *autoclicker.Scheduler, toggle tui.Toggle, store *config.Store, feed <-chan string) error {
	model := tui.NewModel(scheduler, toggle, store, feed)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
