package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/ringgen/internal/cli/config"
	"github.com/conduit-lang/ringgen/internal/compiler/driver"
	"github.com/conduit-lang/ringgen/internal/logging"
	"github.com/conduit-lang/ringgen/internal/lsp"
)

// NewLSPCommand creates the LSP command
func NewLSPCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the ringgen Language Server Protocol (LSP) server.

The server compiles templates and manifests as they are edited and
publishes ringgen diagnostics: invalid capacities, non-struct targets,
missing or mistyped data fields and reserved field names.

The LSP server communicates via JSON-RPC over stdin/stdout.
It is typically started automatically by your editor/IDE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			// stdout carries the protocol, logs go to stderr
			logger, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			server := lsp.NewServer(driver.New(cfg.DriverOptions(), logger), logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			return server.Run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request to stderr")

	return cmd
}
