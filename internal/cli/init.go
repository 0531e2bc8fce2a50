package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docscantools/docsync/internal/config"
	"github.com/docscantools/docsync/internal/ui"
)

var (
	initServerFlag string
	initForceFlag  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .docsync.yaml configuration",
	Long: `Write a starter configuration file in the current directory.

Examples:
  docsync init --server https://git.example.org/api/v1
  docsync init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand()
	},
}

func init() {
	initCmd.Flags().StringVar(&initServerFlag, "server", "", "base API URL of the Gogs server")
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

func initCommand() error {
	path := config.ConfigFileName
	if configFlag != "" {
		path = configFlag
	}

	if err := config.WriteTemplate(path, initServerFlag, initForceFlag); err != nil {
		return err
	}

	fmt.Print(ui.RenderSuccess("Wrote " + path))
	if initServerFlag == "" {
		fmt.Print(ui.RenderDetail("Set server.url before running 'docsync login'"))
	}
	return nil
}
