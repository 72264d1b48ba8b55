package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyjia/invoice-bundler/internal/application/service"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		outDir  string
		archive bool
		client  string
	)

	cmd := &cobra.Command{
		Use:   "generate <workbook>",
		Short: "Render one statement per client into <out>/<run-id>/",
		Long: `Render one "facture globale" PDF per client. Files are written into a new
folder named after the run id under the output directory. --archive writes a
single zip instead, --client restricts the run to one client.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				a.cfg.Output.Dir = outDir
			}

			svc, err := a.statementService(cmd.Context())
			if err != nil {
				return err
			}

			upload, err := readUpload(args[0])
			if err != nil {
				return err
			}

			export, err := svc.Export(cmd.Context(), upload, service.GenerateOptions{
				Client:  client,
				Archive: archive,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s: %s\n", export.Result.RunID, export.Result.Message)
			printWarnings(cmd.ErrOrStderr(), export.Result.Warnings())
			for _, f := range export.Files {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config output.dir)")
	cmd.Flags().BoolVar(&archive, "archive", false, "write a single zip archive")
	cmd.Flags().StringVar(&client, "client", "", "only render the statement of this client")

	return cmd
}
