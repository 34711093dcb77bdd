// ABOUTME: CLI commands for the administrator console.
// ABOUTME: Lists, creates and deletes users, resets passwords, inspects the schema and clears data.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/models"
	"github.com/ugmotion/ugmotion/internal/storage"
)

var (
	adminJSON      bool
	adminPassword  string
	adminClearSure bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator console",
	Long: `Manage accounts on this device. Requires being logged in as the administrator.

COMMANDS:

  users        List every account
  add          Create an account
  delete       Delete an account and all of its data
  passwd       Reset an account's password
  inspect      Show tables, columns, foreign keys and row counts
  clear-data   Delete all plans, logs and goals (accounts are kept)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requireAdmin()
	},
}

var adminUsersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"ls"},
	Short:   "List accounts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := repo.ListUsers()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if adminJSON {
			return printJSON(users)
		}

		faint := color.New(color.Faint)
		for _, u := range users {
			role := ""
			if repo.IsAdmin(u) {
				role = color.CyanString(" admin")
			}
			fmt.Printf("%s %s %s%s\n",
				faint.Sprintf("#%-4d", u.ID),
				padRight(truncate(u.Name, 20), 20),
				faint.Sprint(optional(u.Email)),
				role)
		}
		return nil
	},
}

var adminAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(adminPassword, cmd.InOrStdin())
		if err != nil {
			return err
		}
		u, err := repo.CreateUser(args[0], password)
		if err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return fmt.Errorf("the name %q is already taken", args[0])
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		color.Green("✓ Created %s", u.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("user #%d", u.ID))
		return nil
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete an account and its data",
	Long: `Delete an account together with its plan, logs and goals.

The administrator account cannot be deleted.

CAUTION:

  This permanently deletes the account. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		if repo.IsAdmin(u) {
			return fmt.Errorf("the administrator account cannot be deleted")
		}
		if err := repo.DeleteUser(u.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		color.Yellow("✗ Deleted %s", u.Name)
		return nil
	},
}

var adminPasswdCmd = &cobra.Command{
	Use:   "passwd <id|name>",
	Short: "Reset an account's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		password, err := readPassword(adminPassword, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := repo.UpdatePassword(u.ID, password); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		color.Green("✓ Password updated for %s", u.Name)
		return nil
	},
}

var adminInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := repo.InspectSchema()
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		if adminJSON {
			return printJSON(tables)
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)
		for _, t := range tables {
			fmt.Printf("%s %s\n", bold.Sprint(t.Name), faint.Sprintf("(%d rows)", t.Rows))
			for _, c := range t.Columns {
				var flags []string
				if c.PrimaryKey {
					flags = append(flags, "pk")
				}
				if c.NotNull {
					flags = append(flags, "not null")
				}
				fmt.Printf("  %s %s %s\n", padRight(c.Name, 20), padRight(c.Type, 8), faint.Sprint(strings.Join(flags, ", ")))
			}
			for _, fk := range t.ForeignKeys {
				fmt.Printf("  %s %s -> %s.%s on delete %s\n", faint.Sprint("fk"), fk.From, fk.Table, fk.To, strings.ToLower(fk.OnDelete))
			}
		}
		return nil
	},
}

var adminClearDataCmd = &cobra.Command{
	Use:   "clear-data",
	Short: "Delete all plans, logs and goals",
	Long: `Delete every plan, workout log, intake entry and daily goal for all users.
Accounts are kept. Pass --yes to confirm.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !adminClearSure {
			return fmt.Errorf("refusing to clear data without --yes")
		}
		if err := repo.ClearAllData(); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
		color.Yellow("✗ Cleared all plans, logs and goals")
		return nil
	},
}

// lookupUser resolves a numeric id or a case-insensitive name.
func lookupUser(ref string) (*models.User, error) {
	var (
		u   *models.User
		err error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		u, err = repo.GetUser(id)
	} else {
		u, err = repo.GetUserByName(ref)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("user not found: %s", ref)
	}
	return u, err
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	adminUsersCmd.Flags().BoolVar(&adminJSON, "json", false, "print JSON")
	adminInspectCmd.Flags().BoolVar(&adminJSON, "json", false, "print JSON")
	adminAddCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "password (default: read from stdin)")
	adminPasswdCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "new password (default: read from stdin)")
	adminClearDataCmd.Flags().BoolVar(&adminClearSure, "yes", false, "confirm deleting all data")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminAddCmd)
	adminCmd.AddCommand(adminDeleteCmd)
	adminCmd.AddCommand(adminPasswdCmd)
	adminCmd.AddCommand(adminInspectCmd)
	adminCmd.AddCommand(adminClearDataCmd)

	rootCmd.AddCommand(adminCmd)
}
