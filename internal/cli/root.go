// Package cli implements the bundler command line.
//
//	bundler
//	├── generate <workbook>   render statements into <out>/<run-id>/
//	├── preview <workbook>    print the per-client overview
//	├── verify <pdf>          read the totals back from a statement
//	├── sample <path.xlsx>    write an example workbook
//	├── format                print the expected columns as YAML
//	└── version
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-bundler/internal/application/service"
	"github.com/garyjia/invoice-bundler/internal/config"
	"github.com/garyjia/invoice-bundler/internal/container"
	"github.com/garyjia/invoice-bundler/pkg/utils"
)

// app carries the state shared by all subcommands of one invocation
type app struct {
	cfgFile string
	verbose bool

	cfg       *config.Config
	logger    *zap.Logger
	container *container.Container
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "bundler",
		Short: "Bundle invoice line items into per-client global invoices",
		Long: `bundler reads a workbook of invoice line items (xlsx or xls), groups the
rows by client and renders one "facture globale" PDF per client, optionally
packed into a zip archive.

Example Usage:
  bundler format                           # show the expected columns
  bundler preview factures.xlsx            # print per-client totals
  bundler generate factures.xlsx --archive # write factures_globales.zip`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "path to a YAML configuration file (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newPreviewCmd(a),
		newVerifyCmd(a),
		newSampleCmd(a),
		newFormatCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// setup loads configuration and the logger
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := utils.NewCLILogger(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// statementService starts the container on first use so commands can
// adjust the configuration from their flags first
func (a *app) statementService(ctx context.Context) (service.StatementService, error) {
	if a.container == nil {
		c, err := container.NewContainer(a.cfg, a.logger)
		if err != nil {
			return nil, err
		}
		if err := c.Start(ctx); err != nil {
			return nil, err
		}
		a.container = c
	}
	return a.container.StatementService(), nil
}

func (a *app) close() {
	if a.container != nil {
		_ = a.container.Close()
		a.container = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// readUpload loads a workbook from disk
func readUpload(path string) (service.Upload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return service.Upload{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return service.Upload{FileName: path, Content: content}, nil
}

func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
