package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/docscantools/docsync/internal/errors"
	"github.com/docscantools/docsync/internal/ui"
)

var (
	loginUserFlag string
	loginNameFlag string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the server and provision this device",
	Long: `Authenticate against the configured Gogs server.

Login exchanges your password for a device-scoped access token, registers
this device's SSH key with your account, and remembers the session locally.
The password itself is never stored.

Examples:
  docsync login
  docsync login --user alice
  docsync login --user alice --name "Alice Walker"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginCommand()
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginUserFlag, "user", "", "username on the server")
	loginCmd.Flags().StringVar(&loginNameFlag, "name", "", "display name to use if the account has none")
	rootCmd.AddCommand(loginCmd)
}

func loginCommand() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}

	if a.session.LoggedIn() {
		fmt.Printf("Already logged in as %s. Run 'docsync logout' first to switch accounts.\n",
			a.session.User().Username)
		return nil
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(ui.RenderHeader(formatVersion(version)))
	}

	username, password, fullName, err := promptCredentials()
	if err != nil {
		return err
	}

	user := a.session.Login(username, password, fullName)
	if user == nil {
		return errors.New(errors.ErrAuth,
			"Login failed",
			"Check your username and password, and that the server URL is reachable")
	}

	// Provision and register the SSH key so pushes work immediately.
	a.keys.Generate(false)
	title, err := keyTitle(a)
	if err != nil {
		return err
	}
	if !a.keys.Register(a.api, user, title) {
		fmt.Print(ui.RenderWarning("Could not register the SSH key; pushes will fail until 'docsync keys rotate' succeeds"))
	}

	fmt.Print(ui.RenderSuccess(fmt.Sprintf("Logged in as %s", user.Username)))
	return nil
}

// promptCredentials collects login input. On a terminal it runs an
// interactive form; otherwise it reads newline-separated values from
// stdin so the command stays scriptable.
func promptCredentials() (username, password, fullName string, err error) {
	username = loginUserFlag
	fullName = loginNameFlag

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		scanner := bufio.NewScanner(os.Stdin)
		if username == "" && scanner.Scan() {
			username = strings.TrimSpace(scanner.Text())
		}
		if scanner.Scan() {
			password = scanner.Text()
		}
		if username == "" || password == "" {
			return "", "", "", errors.New(errors.ErrAuth,
				"Missing credentials",
				"Pipe username and password on separate lines, or run in a terminal")
		}
		return username, password, fullName, nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("username is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Display name").
				Description("Used only if your account has no display name yet").
				Value(&fullName),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", "", errors.WrapWithCode(err, errors.ErrAuth,
			"Login cancelled", "")
	}
	return strings.TrimSpace(username), password, strings.TrimSpace(fullName), nil
}
