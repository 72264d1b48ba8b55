package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <workbook>",
		Short: "Print invoice count and totals per client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.statementService(cmd.Context())
			if err != nil {
				return err
			}

			upload, err := readUpload(args[0])
			if err != nil {
				return err
			}

			result, err := svc.Preview(cmd.Context(), upload)
			if err != nil {
				return err
			}

			overview := result.Overview
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "CLIENT\tINVOICES\tTOTAL HT\tTOTAL TVA\tTOTAL TTC\t")
			for _, row := range overview.Clients {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t\n", row.Client, row.InvoiceCount, row.TotalHT, row.TotalTVA, row.TotalTTC)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d client(s), %d invoice(s), grand total TTC %s\n",
				overview.ClientCount, overview.InvoiceCount, overview.GrandTotalTTC)
			printWarnings(cmd.ErrOrStderr(), result.Warnings())
			return nil
		},
	}
}
