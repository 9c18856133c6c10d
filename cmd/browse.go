package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rail44/roster/internal/formatter"
	"github.com/rail44/roster/internal/log"
	"github.com/rail44/roster/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse users interactively",
	Long: `Browse shows the fetched users in a table. Press enter to greet the
selected user, r to fetch again and q to quit. When stdout is not a terminal
or --plain is set the table is printed once instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, cfg := newApp()

		ctx, cancel := signalContext()
		defer cancel()

		browser := ui.NewBrowser(ctx, a.Factory().FetchAll, a.Greeter())
		program := ui.NewProgram(browser, ui.ProgramOptions{
			Plain:    cfg.Plain,
			LogLevel: log.GetCurrentLevel(),
		})

		if !program.IsTUIEnabled() {
			users := a.Factory().FetchAll(ctx)
			if users == nil {
				os.Exit(1)
			}
			cfg.Output = browseOutput(output)
			if err := a.Print(users); err != nil {
				log.Error("failed to print users", slog.String("error", err.Error()))
				os.Exit(1)
			}
			return
		}

		if err := a.CheckGreeter(ctx); err != nil {
			log.Error("greeter unavailable", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// Route logs to the status bar while the TUI owns the screen
		log.SetLogger(program.Logger())
		defer setupLogging(cfg)

		if err := program.Run(ctx); err != nil {
			setupLogging(cfg)
			log.Error("failed to run UI", slog.String("error", err.Error()))
			os.Exit(1)
		}
	},
}

// browseOutput is the format the non-interactive fallback prints in. An
// explicit --output wins over the table.
func browseOutput(flag string) string {
	if flag != "" {
		return flag
	}
	return string(formatter.KindTable)
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
