package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docscantools/docsync/internal/errors"
	"github.com/docscantools/docsync/internal/session"
	"github.com/docscantools/docsync/internal/ui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage this device's SSH keys",
}

var keysStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether SSH keys exist on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		return keysStatusCommand()
	},
}

var keysRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Replace the SSH key pair and re-register it",
	Long: `Generate a fresh SSH key pair and register the new public key with
your account, replacing any key this device registered before.

Use this when the server rejects pushes from this device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return keysRotateCommand()
	},
}

func init() {
	keysCmd.AddCommand(keysStatusCmd)
	keysCmd.AddCommand(keysRotateCmd)
	rootCmd.AddCommand(keysCmd)
}

// keyTitle derives the device-scoped title used for the server-side key.
func keyTitle(a *app) (string, error) {
	return session.KeyTitle(a.paths)
}

func keysStatusCommand() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !a.keys.HasKeys() {
		fmt.Printf("%s No SSH keys on this device. They are created on login.\n", ui.SymbolPending)
		return nil
	}

	fmt.Print(ui.RenderSuccess("SSH key pair present"))
	fmt.Print(ui.RenderDetail(a.paths.PrivateKey() + "\n" + a.paths.PublicKey()))
	return nil
}

func keysRotateCommand() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}
	if !a.session.LoggedIn() {
		return errors.New(errors.ErrAuth,
			"Not logged in",
			"Run 'docsync login' first; login provisions keys automatically")
	}

	a.keys.Generate(true)
	if !a.keys.HasKeys() {
		return errors.New(errors.ErrSSH,
			"Failed to generate a new key pair",
			"Check permissions on the data directory")
	}

	title, err := keyTitle(a)
	if err != nil {
		return err
	}
	if !a.keys.Register(a.api, a.session.User(), title) {
		return errors.New(errors.ErrSSH,
			"Failed to register the new key with the server",
			"Check the server is reachable, then run 'docsync keys rotate' again")
	}

	fmt.Print(ui.RenderSuccess("SSH keys rotated and registered"))
	return nil
}
