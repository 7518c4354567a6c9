package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/cli/config"
	"github.com/conduit-lang/ringgen/internal/cli/ui"
	"github.com/conduit-lang/ringgen/internal/compiler/driver"
	"github.com/conduit-lang/ringgen/internal/logging"
	"github.com/conduit-lang/ringgen/internal/utils"
)

// generateOptions holds the flags shared by generate and check
type generateOptions struct {
	json     bool
	verbose  bool
	dryRun   bool
	noColor  bool
	suffix   string
	tag      string
	manifest string
	write    bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	opts := &generateOptions{write: true}

	cmd := &cobra.Command{
		Use:     "generate [paths...]",
		Aliases: []string{"gen"},
		Short:   "Generate ring buffer implementations from templates",
		Long: `Compile every template under the given files or directories and write
the generated implementation next to each template.

Directories are searched recursively; "./..." is accepted. With no
arguments ringgen uses $GOFILE when run by go generate, and the current
directory otherwise.

Templates declaring any error produce no output at all. Outputs whose
content is unchanged are left untouched.`,
		Example: `  # Generate for every template below the current directory
  ringgen generate ./...

  # From a go:generate line
  //go:generate go run github.com/conduit-lang/ringgen/cmd/ringgen generate buffers.go

  # Print the generated code instead of writing it
  ringgen generate --dry-run buffers.go

  # Generate from a YAML manifest
  ringgen generate --manifest buffers.yml

  # Report diagnostics as JSON
  ringgen generate --json ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	addGenerateFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print generated code instead of writing files")

	return cmd
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate templates without writing output",
		Long: `Run the full pipeline on every template and report diagnostics.
Nothing is written. The command fails when any template has errors.`,
		Example: `  ringgen check ./...
  ringgen check --json ./internal/queue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	addGenerateFlags(cmd, opts)

	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output diagnostics in JSON format")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show detailed output")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.suffix, "suffix", "", "Output file suffix (default from config, _ring.go)")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "Build tag guarding templates (default from config, ringgen)")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "Compile a YAML manifest instead of Go templates")
}

// newCompiler builds a compiler from the configuration and flag overrides
func newCompiler(cmd *cobra.Command, opts *generateOptions, logger *zap.Logger) (*driver.Compiler, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err, opts.noColor))
		return nil, fmt.Errorf("invalid configuration")
	}

	driverOpts := cfg.DriverOptions()
	if cmd.Flags().Changed("suffix") {
		driverOpts.Suffix = opts.suffix
	}
	if cmd.Flags().Changed("tag") {
		driverOpts.BuildTag = opts.tag
	}
	return driver.New(driverOpts, logger), nil
}

// inputPaths returns the paths to search when none are given
func inputPaths(args []string) []string {
	if len(args) > 0 {
		return args
	}
	if gofile := os.Getenv("GOFILE"); gofile != "" {
		return []string{gofile}
	}
	return []string{"."}
}

func runGenerate(cmd *cobra.Command, args []string, opts *generateOptions) error {
	if opts.noColor {
		color.NoColor = true
	}

	logger, err := logging.New(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	compiler, err := newCompiler(cmd, opts, logger)
	if err != nil {
		return err
	}

	var results []*driver.Result
	if opts.manifest != "" {
		results = append(results, compiler.CompileManifest(opts.manifest))
	}

	if opts.manifest == "" || len(args) > 0 {
		paths := inputPaths(args)
		finder := utils.TemplateFinder{
			Directive: compiler.Options().Directive,
			IsOutput:  compiler.Options().IsOutput,
		}
		files, err := finder.Find(paths)
		if err != nil {
			return err
		}
		if len(files) == 0 && opts.manifest == "" {
			fmt.Fprint(cmd.ErrOrStderr(), ui.NoTemplatesWarning(paths, opts.noColor))
			return nil
		}
		for _, file := range files {
			results = append(results, compiler.CompileFile(file))
		}
	}

	return reportResults(cmd, compiler, results, opts)
}

// reportResults writes outputs when requested and prints diagnostics and a summary
func reportResults(cmd *cobra.Command, compiler *driver.Compiler, results []*driver.Result, opts *generateOptions) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var diagnostics []errors.CompilerError
	table := ui.NewTable(out, opts.noColor, "SOURCE", "BUFFERS", "OUTPUT", "STATUS")

	for _, r := range results {
		diagnostics = append(diagnostics, r.Diagnostics...)
		if r.HasErrors() {
			table.AddRow(r.Source, "-", "-", "failed")
			continue
		}
		if r.Code == nil {
			continue
		}

		status := "ok"
		switch {
		case opts.dryRun:
			status = "dry run"
			if !opts.json {
				fmt.Fprintf(out, "// %s\n%s\n", r.Output, r.Code)
			}
		case opts.write:
			written, err := compiler.Write(r)
			if err != nil {
				return err
			}
			status = "unchanged"
			if written {
				status = "written"
			}
		}
		table.AddRow(r.Source, strconv.Itoa(len(r.Expansions)), r.Output, status)
	}

	recovery := errors.NewErrorRecovery()
	recovery.RecoverMultiple(diagnostics)

	if opts.json {
		if err := writeJSON(out, diagnostics); err != nil {
			return err
		}
	} else {
		if len(diagnostics) > 0 {
			fmt.Fprint(errOut, recovery.FormatForTerminal())
		}
		if !opts.dryRun && (opts.verbose || !opts.write) && table.Len() > 0 {
			table.Render()
		}
	}

	if recovery.HasErrors() {
		return fmt.Errorf("%d error(s) in %d input(s)", recovery.ErrorCount(), len(results))
	}

	if !opts.json && !opts.dryRun {
		verb := "Generated"
		if !opts.write {
			verb = "Checked"
		}
		ui.WriteSuccess(errOut, fmt.Sprintf("%s %d input(s)", verb, len(results)), opts.noColor)
	}
	return nil
}

func writeJSON(w io.Writer, diagnostics []errors.CompilerError) error {
	data, err := errors.FormatErrorsAsJSON(diagnostics)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	_, err = fmt.Fprintln(w, data)
	return err
}
