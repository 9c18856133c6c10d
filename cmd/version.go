package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var appVersion = "<none>"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), appVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
