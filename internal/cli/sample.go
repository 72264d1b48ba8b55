package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyjia/invoice-bundler/internal/invoice"
	"github.com/garyjia/invoice-bundler/internal/workbook"
)

func newSampleCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sample <path.xlsx>",
		Short: "Write an example workbook with the expected columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			data, err := workbook.WriteXLSX(invoice.SampleRows())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			a.logger.Debug("Sample workbook written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
