package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/statement"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <pdf>",
		Short: "Print the totals read back from a rendered statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.statementService(cmd.Context())
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			totals, err := svc.Verify(cmd.Context(), data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", statement.LabelTotalHT, models.FormatAmount(totals.TotalHT))
			fmt.Fprintf(out, "%s %s\n", statement.LabelTotalTVA, models.FormatAmount(totals.TotalTVA))
			fmt.Fprintf(out, "%s %s\n", statement.LabelTotalTTC, models.FormatAmount(totals.TotalTTC))

			if !totals.TotalHT.Add(totals.TotalTVA).Equal(totals.TotalTTC) {
				return fmt.Errorf("TOTAL TTC does not equal TOTAL HT + TOTAL TVA")
			}
			return nil
		},
	}
}
