package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/taskline/internal/config"
	"github.com/sandeepkv93/taskline/internal/interpreter"
	"github.com/sandeepkv93/taskline/internal/logging"
	"github.com/sandeepkv93/taskline/internal/shell"
	"github.com/sandeepkv93/taskline/internal/storage"
	"github.com/sandeepkv93/taskline/internal/update"
	"github.com/sandeepkv93/taskline/internal/views"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	dataPath   string
	backend    string
	logLevel   string
	logFile    string
	plain      bool
}

// session bundles what every host needs once config, logger and store are open.
type session struct {
	cfg    config.RuntimeConfig
	logger *log.Logger
	store  storage.Store
	interp *interpreter.Interpreter
	close  func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "taskline failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "taskline",
		Short:         "Track todos, deadlines and events from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, f)
			if err != nil {
				return err
			}
			defer s.close()
			if s.cfg.Plain {
				return shell.New(s.interp, s.store, s.logger).Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return runTUI(cmd.Context(), s)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to a TOML config file (default $"+config.EnvConfigFile+")")
	pf.StringVar(&f.dataPath, "data", "", "task data location (file path or sqlite database)")
	pf.StringVar(&f.backend, "backend", "", "storage backend: file or sqlite")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFile, "log-file", "", "append logs to this file")
	root.Flags().BoolVar(&f.plain, "plain", false, "use the plain line REPL instead of the terminal UI")

	root.AddCommand(newExecCmd(f))
	return root
}

func newExecCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "exec LINE...",
		Short: "Run each argument as a command line and print the replies",
		Example: `  taskline exec "todo read book" list
  taskline exec "deadline submit report /by 2/12/2019 1800" bye`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, f)
			if err != nil {
				return err
			}
			defer s.close()
			return runExec(cmd.Context(), s, args, cmd.OutOrStdout())
		},
	}
}

// runExec processes lines in order and persists only when one of them ends the
// session. Lines after the terminating one are reported as failures.
func runExec(ctx context.Context, s *session, lines []string, out io.Writer) error {
	var failed int
	for _, line := range lines {
		res, err := s.interp.Process(line)
		reply := res.Text
		if err != nil {
			failed++
			reply = views.Failure(err)
		}
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return err
		}
	}
	if !s.interp.IsRunning() {
		snapshot := s.interp.FinalSnapshot()
		if err := s.store.Save(ctx, snapshot); err != nil {
			return err
		}
		s.logger.Info("tasks saved", "count", len(snapshot))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d command(s) failed", failed, len(lines))
	}
	return nil
}

func runTUI(ctx context.Context, s *session) error {
	model := update.NewModel(s.interp, update.Options{
		Store:         s.store,
		Logger:        s.logger,
		ShutdownGrace: s.cfg.ShutdownGrace(),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := final.(update.Model); ok && m.LastError != nil {
		return m.LastError
	}
	return nil
}

func openSession(cmd *cobra.Command, f *flags) (*session, error) {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return nil, err
	}

	fullScreen := !cfg.Plain && !cmd.HasParent()
	logger, logCloser, err := openLogger(cfg, fullScreen, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	closeLog := func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}

	store, err := storage.Open(cmd.Context(), storage.Backend(cfg.Backend), cfg.DataPath)
	if err != nil {
		logger.Error("open store failed", "backend", cfg.Backend, "path", cfg.DataPath, "err", err)
		closeLog()
		return nil, err
	}
	lines, err := store.Load(cmd.Context())
	if err != nil {
		logger.Error("load tasks failed", "err", err)
		_ = store.Close()
		closeLog()
		return nil, err
	}
	logger.Debug("tasks loaded", "backend", cfg.Backend, "path", cfg.DataPath, "count", len(lines))

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		interp: interpreter.New(lines, interpreter.WithLogger(logger)),
		close: func() {
			if err := store.Close(); err != nil {
				logger.Warn("close store failed", "err", err)
			}
			closeLog()
		},
	}, nil
}

// resolveConfig applies explicitly set flags over file and environment values.
func resolveConfig(cmd *cobra.Command, f *flags) (config.RuntimeConfig, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("data") {
		cfg.DataPath = f.dataPath
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-file") {
		cfg.LogPath = f.logFile
	}
	if changed("plain") {
		cfg.Plain = f.plain
	}
	if err := cfg.Validate(); err != nil {
		return config.RuntimeConfig{}, err
	}
	return cfg, nil
}

// openLogger writes to the configured file when set. Otherwise the line hosts
// log to stderr and the full-screen UI discards records.
func openLogger(cfg config.RuntimeConfig, fullScreen bool, stderr io.Writer) (*log.Logger, io.Closer, error) {
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	if cfg.LogPath != "" {
		return logging.OpenFile(cfg.LogPath, opts)
	}
	if fullScreen {
		return logging.Discard(), nil, nil
	}
	logger, err := logging.New(stderr, opts)
	return logger, nil, err
}
