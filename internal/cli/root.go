package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docscantools/docsync/internal/ui"
)

// Persistent flags shared by every command.
var (
	configFlag  string
	dataDirFlag string
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Sync translation projects with a Gogs server",
	Long: `docsync keeps scanned translation projects in per-project git
repositories and uploads them to a self-hosted Gogs server over SSH.

Each project is identified by language, book, and level; the combination
names both the local working tree and the server-side repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag {
			ui.DisableColors()
		} else {
			ui.ConfigureColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "override the data directory")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// Execute runs the CLI. Errors are rendered once here; commands return
// them instead of printing. Structured errors carry their own formatting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
