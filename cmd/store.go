package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rail44/roster/internal/log"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch users and save them to the configured store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, _ := newApp()

		ctx, cancel := signalContext()
		defer cancel()

		if _, err := a.Sync(ctx); err != nil {
			log.Error("sync failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Print the users saved in the configured store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, _ := newApp()

		ctx, cancel := signalContext()
		defer cancel()

		if err := a.Load(ctx); err != nil {
			log.Error("load failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(loadCmd)
}
