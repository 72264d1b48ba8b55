package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/garyjia/invoice-bundler/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Invoice Statement Bundler")
			fmt.Fprintf(out, "Version:    %s\n", version.Version)
			fmt.Fprintf(out, "Build Date: %s\n", version.BuildDate)
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		},
	}
}
