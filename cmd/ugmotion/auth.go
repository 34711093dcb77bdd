// ABOUTME: CLI commands for accounts on this device.
// ABOUTME: Provides signup, login, logout and whoami.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/storage"
)

var (
	signupPassword string
	loginPassword  string
)

var signupCmd = &cobra.Command{
	Use:   "signup <name>",
	Short: "Create an account and log in",
	Long: `Create a new account. Names are unique regardless of case.

The password is read from --password or, when omitted, from stdin.

Examples:
  ugmotion signup casey --password hunter2
  echo hunter2 | ugmotion signup casey`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		password, err := readPassword(signupPassword, cmd.InOrStdin())
		if err != nil {
			return err
		}

		u, err := repo.CreateUser(name, password)
		if err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return fmt.Errorf("the name %q is already taken", name)
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		token, err := kv.SetLoggedInUser(u.ID)
		if err != nil {
			return fmt.Errorf("failed to log in: %w", err)
		}

		color.Green("✓ Welcome, %s", u.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("user #%d, session %s", u.ID, shortToken(token)))
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <name>",
	Short: "Log in on this device",
	Long: `Log in with your name and password. The login is remembered on this device
until 'ugmotion logout'.

Examples:
  ugmotion login casey --password hunter2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(loginPassword, cmd.InOrStdin())
		if err != nil {
			return err
		}

		u, err := repo.Authenticate(strings.TrimSpace(args[0]), password)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidCredentials) || errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("login failed: incorrect name or password")
			}
			return fmt.Errorf("login failed: %w", err)
		}
		token, err := kv.SetLoggedInUser(u.ID)
		if err != nil {
			return fmt.Errorf("failed to save login: %w", err)
		}

		color.Green("✓ Logged in as %s", u.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("session %s", shortToken(token)))
		if repo.IsAdmin(u) {
			fmt.Println("  Administrator: 'ugmotion admin' commands are available.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out on this device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kv.ClearLoggedInUser(); err != nil {
			return fmt.Errorf("failed to log out: %w", err)
		}
		color.Yellow("✗ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, token, err := currentLogin()
		if err != nil {
			if errors.Is(err, errNotLoggedIn) {
				fmt.Fprintln(os.Stderr, "Not logged in.")
				return nil
			}
			return err
		}
		u, err := repo.GetUser(id)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s", u.Name, color.New(color.Faint).Sprintf("(#%d)", u.ID))
		if repo.IsAdmin(u) {
			fmt.Print(color.CyanString(" admin"))
		}
		fmt.Println()
		fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("session %s", shortToken(token)))
		return nil
	},
}

// shortToken is the first block of a session token, enough to tell logins apart.
func shortToken(token string) string {
	if i := strings.IndexByte(token, '-'); i > 0 {
		return token[:i]
	}
	return token
}

func init() {
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "account password (default: read from stdin)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (default: read from stdin)")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
