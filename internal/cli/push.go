package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/docscantools/docsync/internal/errors"
	"github.com/docscantools/docsync/internal/project"
	"github.com/docscantools/docsync/internal/push"
	"github.com/docscantools/docsync/internal/ui"
)

var pushYesFlag bool

var pushCmd = &cobra.Command{
	Use:   "push <language> <book> <level>",
	Short: "Commit local work and upload it to the server",
	Long: `Commit any outstanding changes in the project's working tree and push
the project branch to the server, creating the server-side repository on
first use.

The project is identified by language, book, and level, which together
name both the local directory and the remote repository.

Examples:
  docsync push en ulb mat
  docsync push es_419 ulb gen`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return pushCommand(project.NewIdentity(args[0], args[1], args[2]))
	},
}

func init() {
	pushCmd.Flags().BoolVarP(&pushYesFlag, "yes", "y", false, "assume yes for prompts")
	rootCmd.AddCommand(pushCmd)
}

func pushCommand(id project.Identity) error {
	if !id.Valid() {
		return errors.New(errors.ErrPush,
			"Incomplete project name",
			"Provide language, book, and level, e.g. 'docsync push en ulb mat'")
	}

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
			"Run 'docsync login' first")
	}

	outcome := runPush(a, id)

	// An auth failure usually means the key on the server went stale,
	// e.g. after a reinstall. Offer to provision a fresh key and retry
	// once.
	if outcome.Status == push.StatusAuthFailure && confirmReprovision() {
		if reprovisionKeys(a) {
			outcome = runPush(a, id)
		}
	}

	if !outcome.OK() {
		if outcome.Message != "" {
			fmt.Print(ui.RenderDetail(outcome.Message))
		}
		return errors.New(errors.ErrPush,
			fmt.Sprintf("Upload failed: %s", outcome.Status),
			suggestionFor(outcome.Status))
	}

	fmt.Print(ui.RenderSuccess(fmt.Sprintf("Uploaded %s", id.Slug())))
	return nil
}

// runPush drives one push attempt behind a spinner that walks through the
// stage messages.
func runPush(a *app, id project.Identity) push.Outcome {
	spinner := ui.NewSpinner("Preparing")
	spinner.Start()
	outcome := a.coordinator.Push(id, push.ProgressFunc(func(message string) {
		spinner.SetLabel(message)
	}))
	if outcome.OK() {
		spinner.Success()
	} else {
		spinner.Fail()
	}
	return outcome
}

// confirmReprovision asks before rotating keys. Non-interactive runs only
// proceed with --yes.
func confirmReprovision() bool {
	if pushYesFlag {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("The server rejected this device's SSH key. Generate a new one and retry?").
				Description("The old key is replaced on the server").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return false
	}
	return confirm
}

// reprovisionKeys rotates the key pair and registers the new public key.
func reprovisionKeys(a *app) bool {
	a.keys.Generate(true)
	title, err := keyTitle(a)
	if err != nil {
		return false
	}
	return a.keys.Register(a.api, a.session.User(), title)
}

// suggestionFor maps a failed status to a next step for the user.
func suggestionFor(status push.Status) string {
	switch status {
	case push.StatusAuthFailure:
		return "Run 'docsync login' again, or 'docsync keys rotate' to replace this device's key"
	case push.StatusNoRemoteRepo:
		return "Check the server URL in your config and that your account can create repositories"
	case push.StatusRejectedNonFastForward, push.StatusRejectedRemoteChanged:
		return "The server has changes this device does not; resolve the divergence before pushing again"
	case push.StatusOutOfMemory:
		return "The server is out of memory; retry later or contact the server operator"
	default:
		return "Run with DOCSYNC_DEBUG=1 for details"
	}
}
