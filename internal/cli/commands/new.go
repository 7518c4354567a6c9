package commands

import (
	stderrors "errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/ringgen/internal/cli/config"
	"github.com/conduit-lang/ringgen/internal/cli/ui"
	"github.com/conduit-lang/ringgen/internal/templates"
)

// newOptions holds the flags of the new command
type newOptions struct {
	capacity    int
	elem        string
	pkg         string
	dir         string
	generic     bool
	interactive bool
	force       bool
	noColor     bool
}

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	opts := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new [TypeName]",
		Short: "Create a ring buffer template",
		Long: `Write a starter template declaring a ring buffer type. The file is named
after the type in snake_case and carries the configured build tag so
it is excluded from normal builds.`,
		Example: `  # Template for a queue of 16 ints
  ringgen new IntQueue --capacity 16 --elem int

  # Generic template
  ringgen new Window --capacity 4 --generic

  # Prompt for every value
  ringgen new -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := templates.BufferTemplate{
				Capacity: opts.capacity,
				Element:  opts.elem,
				Package:  opts.pkg,
				Generic:  opts.generic,
			}
			if len(args) == 1 {
				b.TypeName = args[0]
			}
			return runNew(cmd, b, opts)
		},
	}

	cmd.Flags().IntVar(&opts.capacity, "capacity", 16, "Buffer capacity")
	cmd.Flags().StringVar(&opts.elem, "elem", "int", "Element type")
	cmd.Flags().StringVar(&opts.pkg, "package", "", "Package name (default: the directory name)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory to write the template to")
	cmd.Flags().BoolVar(&opts.generic, "generic", false, "Declare a generic buffer over T")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for template values")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing template")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runNew(cmd *cobra.Command, b templates.BufferTemplate, opts *newOptions) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err, opts.noColor))
		return fmt.Errorf("invalid configuration")
	}
	b.Directive = cfg.Generator.Directive
	b.BuildTag = cfg.Output.BuildTag

	if b.Package == "" {
		b.Package = defaultPackage(opts.dir)
	}
	if b.Generic && !cmd.Flags().Changed("elem") {
		b.Element = ""
	}

	if opts.interactive {
		if err := promptTemplate(&b); err != nil {
			return err
		}
	}
	if b.TypeName == "" {
		return fmt.Errorf("type name required\n\nUsage: ringgen new <TypeName>")
	}

	path, err := templates.NewEngine().Write(b, opts.dir, opts.force)
	if stderrors.Is(err, os.ErrExist) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.TemplateExistsError(path, opts.noColor))
		return fmt.Errorf("template not written")
	}
	if err != nil {
		return err
	}

	ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created %s", path), opts.noColor)
	info := color.New(color.FgCyan)
	if opts.noColor {
		info.DisableColor()
	}
	info.Fprintf(cmd.OutOrStdout(), "  Next: ringgen generate %s\n", path)
	return nil
}

// defaultPackage derives a package name from dir, falling back to "main"
func defaultPackage(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "main"
	}
	name := filepath.Base(abs)
	if !isIdent(name) {
		return "main"
	}
	return name
}

func isIdent(s string) bool {
	return token.IsIdentifier(s)
}

func promptTemplate(b *templates.BufferTemplate) error {
	questions := []*survey.Question{
		{
			Name:     "TypeName",
			Prompt:   &survey.Input{Message: "Type name:", Default: b.TypeName},
			Validate: survey.ComposeValidators(survey.Required, identValidator),
		},
		{
			Name:     "Package",
			Prompt:   &survey.Input{Message: "Package:", Default: b.Package},
			Validate: survey.ComposeValidators(survey.Required, identValidator),
		},
		{
			Name:     "Capacity",
			Prompt:   &survey.Input{Message: "Capacity:", Default: strconv.Itoa(b.Capacity)},
			Validate: capacityValidator,
		},
		{
			Name:   "Generic",
			Prompt: &survey.Confirm{Message: "Generic over T?", Default: b.Generic},
		},
	}

	answers := struct {
		TypeName string
		Package  string
		Capacity string
		Generic  bool
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	b.TypeName = answers.TypeName
	b.Package = answers.Package
	b.Capacity, _ = strconv.Atoi(answers.Capacity)
	b.Generic = answers.Generic

	if b.Generic {
		b.Element = ""
		return nil
	}
	return survey.AskOne(&survey.Input{Message: "Element type:", Default: b.Element}, &b.Element, survey.WithValidator(survey.Required))
}

func identValidator(val interface{}) error {
	s, _ := val.(string)
	if !isIdent(s) {
		return fmt.Errorf("%q is not a valid Go identifier", s)
	}
	return nil
}

func capacityValidator(val interface{}) error {
	s, _ := val.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("capacity must be a positive integer")
	}
	return nil
}
