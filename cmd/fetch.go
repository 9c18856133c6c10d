package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rail44/roster/internal/app"
	"github.com/rail44/roster/internal/log"
)

var fetchOpts app.FetchOptions

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch users, print them and greet each one",
	Long: `Fetch performs one GET against <endpoint>/users, caches one user per id
and prints the list in the configured output format. Each user is then greeted
and, with --ids, its record id and instance id are printed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, _ := newApp()

		ctx, cancel := signalContext()
		defer cancel()

		if err := a.Fetch(ctx, fetchOpts); err != nil {
			// fetch failures were already logged by the factory
			if !errors.Is(err, app.ErrNoUsers) {
				log.Error("fetch failed", slog.String("error", err.Error()))
			}
			os.Exit(1)
		}
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchOpts.Greet, "greet", true, "greet each user")
	fetchCmd.Flags().BoolVar(&fetchOpts.IDs, "ids", false, "print record and instance ids")
	rootCmd.AddCommand(fetchCmd)
}
