package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rail44/roster/internal/log"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Collect users from a records file whenever it changes",
	Long: `Watch reads a records file (a JSON array as returned by the endpoint, or a
snapshot written by export), caches its users and prints them. Every time
the file is saved again only the users not seen before are printed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filePath := args[0]

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: file %s does not exist\n", filePath)
			os.Exit(1)
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve path: %v\n", err)
			os.Exit(1)
		}

		a, _ := newApp()

		ctx, cancel := signalContext()
		defer cancel()

		if err := a.Watch(ctx, absPath); err != nil {
			log.Error("watch failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
