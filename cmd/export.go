package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rail44/roster/internal/log"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Fetch users and write them to a gzip JSON-lines snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, _ := newApp()

		ctx, cancel := signalContext()
		defer cancel()

		if _, err := a.Export(ctx, args[0]); err != nil {
			log.Error("export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
