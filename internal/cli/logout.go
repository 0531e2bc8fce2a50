package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docscantools/docsync/internal/session"
	"github.com/docscantools/docsync/internal/ui"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and detach this device",
	Long: `Revoke this device's access token on the server and clear the local
session, SSH keys included.

Local state is cleared even when the server cannot be reached, so a device
can always be detached offline. The leftover server-side token is replaced
on the next login.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return logoutCommand()
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func logoutCommand() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		// No usable server config. Still clear local state so the device
		// can be detached offline.
		if derr := session.DeleteProfile(a.paths); derr != nil {
			return derr
		}
		if kerr := a.keys.RemoveKeys(); kerr != nil {
			a.log.Warn("logout: failed to remove ssh keys: %v", kerr)
		}
		fmt.Print(ui.RenderSuccess("Cleared local session"))
		return nil
	}

	if !a.session.LoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	username := a.session.User().Username
	if err := a.session.Logout(); err != nil {
		return err
	}

	fmt.Print(ui.RenderSuccess(fmt.Sprintf("Logged out %s", username)))
	return nil
}
