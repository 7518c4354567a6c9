package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/cli/config"
	"github.com/conduit-lang/ringgen/internal/cli/ui"
	"github.com/conduit-lang/ringgen/internal/compiler/driver"
	"github.com/conduit-lang/ringgen/internal/logging"
	"github.com/conduit-lang/ringgen/internal/utils"
	"github.com/conduit-lang/ringgen/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate ring buffers when templates change",
		Long: `Generate every template below dir (default: the current directory), then
watch the tree and regenerate templates as they are saved.

Changes are debounced (watch.debounce in ringgen.yml, default 100ms).
Generated files and tests are ignored.`,
		Example: `  ringgen watch
  ringgen watch ./internal/queue -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if noColor {
				color.NoColor = true
			}

			cfg, err := config.Load()
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err, noColor))
				return fmt.Errorf("invalid configuration")
			}

			logger, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			compiler := driver.New(cfg.DriverOptions(), logger)
			finder := utils.TemplateFinder{
				Directive: compiler.Options().Directive,
				IsOutput:  compiler.Options().IsOutput,
			}
			regen := &regenerator{
				compiler: compiler,
				finder:   finder,
				logger:   logger,
				out:      cmd.ErrOrStderr(),
				noColor:  noColor,
			}

			files, err := finder.Find([]string{root})
			if err != nil {
				return err
			}
			_ = regen.run(files)

			watcher, err := watch.NewFileWatcher(watch.Options{
				Root:     root,
				Debounce: cfg.Watch.Debounce,
				Ignored:  []string{"*" + compiler.Options().Suffix, "*_test.go"},
				Logger:   logger,
			}, regen.run)
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			banner := color.New(color.FgCyan, color.Bold)
			banner.Fprintf(cmd.ErrOrStderr(), "Watching %s for template changes\n", root)
			color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to stop")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			fmt.Fprintln(cmd.ErrOrStderr(), "\nShutting down...")
			return watcher.Stop()
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// regenerator compiles and writes a batch of changed files
type regenerator struct {
	compiler *driver.Compiler
	finder   utils.TemplateFinder
	logger   *zap.Logger
	out      io.Writer
	noColor  bool
}

func (r *regenerator) run(files []string) error {
	recovery := errors.NewErrorRecovery()
	written := 0

	for _, file := range files {
		// deleted files and plain Go sources are skipped
		if ok, err := r.finder.IsTemplate(file); err != nil || !ok {
			continue
		}
		result := r.compiler.CompileFile(file)
		recovery.RecoverMultiple(result.Diagnostics)
		if result.HasErrors() || result.Code == nil {
			continue
		}
		ok, err := r.compiler.Write(result)
		if err != nil {
			if ce, isCE := errors.AsCompilerError(err); isCE {
				recovery.Recover(ce)
				continue
			}
			return err
		}
		if ok {
			written++
			ui.WriteSuccess(r.out, fmt.Sprintf("%s -> %s", file, result.Output), r.noColor)
		}
	}

	if recovery.ErrorCount()+recovery.WarningCount() > 0 {
		fmt.Fprint(r.out, recovery.FormatForTerminal())
	}
	if recovery.HasErrors() {
		return fmt.Errorf("%d error(s)", recovery.ErrorCount())
	}
	r.logger.Debug("regenerated", zap.Int("files", len(files)), zap.Int("written", written))
	return nil
}
