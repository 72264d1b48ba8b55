package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/garyjia/invoice-bundler/internal/invoice"
)

// formatDoc is the YAML description of the expected workbook
type formatDoc struct {
	Sheet           string          `yaml:"sheet"`
	RequiredColumns []string        `yaml:"required_columns"`
	OptionalColumns []string        `yaml:"optional_columns"`
	AmountColumns   []string        `yaml:"amount_columns"`
	Sample          [][]interface{} `yaml:"sample,flow"`
}

func newFormatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Print the expected workbook columns as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := formatDoc{
				Sheet:           "first sheet, first row holds the headers",
				RequiredColumns: invoice.RequiredColumns,
				OptionalColumns: invoice.OptionalColumns,
				AmountColumns:   invoice.AmountColumns,
				Sample:          invoice.SampleRows(),
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("failed to encode format: %w", err)
			}
			return enc.Close()
		},
	}
}
