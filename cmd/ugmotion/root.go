// ABOUTME: Root Cobra command for the ugmotion CLI.
// ABOUTME: Opens config, logging, storage and the device store via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/ugmotion/ugmotion/internal/config"
	"github.com/ugmotion/ugmotion/internal/kvstore"
	"github.com/ugmotion/ugmotion/internal/session"
	"github.com/ugmotion/ugmotion/internal/storage"
)

var (
	configPath string

	cfg    *config.Config
	logger *log.Logger
	repo   storage.Repository
	kv     *kvstore.Store
	sess   *session.Session
)

var errNotLoggedIn = errors.New("not logged in (run 'ugmotion login' or 'ugmotion signup')")

var rootCmd = &cobra.Command{
	Use:   "ugmotion",
	Short: "Personal fitness tracker",
	Long: `UGMotion tracks daily intake, a weekly workout plan and your profile.

WHAT IT TRACKS:

  Intake     water (ml), calories (kcal), protein (g) against daily targets
  Activity   steps and sleep sessions
  Training   a seven-day workout plan and the sets you log against it
  Profile    age, sex, height, weight, equipment and BMI

QUICK START:

  $ ugmotion signup casey               # Create an account and log in
  $ ugmotion water add 500              # Log 500 ml of water
  $ ugmotion protein target 160         # Set today's protein target
  $ ugmotion today                      # See today's progress
  $ ugmotion plan create ppl -e bodyweight

ADMIN:

  The administrator account is seeded on first run from the config file
  (admin_name / admin_password, or UGMOTION_ADMIN_* environment variables).
  Log in as the administrator to use 'ugmotion admin'.

MCP INTEGRATION:

  Run 'ugmotion mcp' to start the Model Context Protocol server for the
  logged-in user.

DATA STORAGE:

  Data lives in ~/.local/share/ugmotion/ugmotion.db (SQLite) and
  ~/.local/share/ugmotion/session (login, sleep and steps).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}
		return openStores()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStores()
	},
}

// Execute runs the root command. Stores are closed even when a command fails,
// since cobra skips PersistentPostRunE after a RunE error.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, closeStores())
}

func openStores() error {
	if err := closeStores(); err != nil {
		return err
	}

	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(config.ExpandPath(configPath))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:  cfg.GetLogLevel(),
		Prefix: "ugmotion",
	})

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("opened database", "path", repo.Path())
	usingDefault, err := repo.UsingDefaultAdminPassword()
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if usingDefault {
		logger.Warn("administrator account uses the default password; change it with 'ugmotion admin passwd'",
			"admin", repo.AdminName())
	}

	kv, err = cfg.OpenKV()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	return nil
}

func closeStores() error {
	var errs []error
	if sess != nil {
		errs = append(errs, sess.Close())
		sess = nil
	}
	if kv != nil {
		errs = append(errs, kv.Close())
		kv = nil
	}
	if repo != nil {
		errs = append(errs, repo.Close())
		repo = nil
	}
	return errors.Join(errs...)
}

// currentUserID returns the logged-in user, clearing a login whose user no longer exists.
func currentUserID() (int64, error) {
	id, _, err := currentLogin()
	return id, err
}

// currentLogin returns the logged-in user and the token issued at login.
func currentLogin() (int64, string, error) {
	id, token, ok, err := kv.LoggedInUser()
	if err != nil {
		return 0, "", err
	}
	if !ok {
		return 0, "", errNotLoggedIn
	}
	if _, err := repo.GetUser(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Warn("logged-in user no longer exists, logging out", "user", id)
			if err := kv.ClearLoggedInUser(); err != nil {
				return 0, "", err
			}
			return 0, "", errNotLoggedIn
		}
		return 0, "", err
	}
	return id, token, nil
}

// requireSession hydrates the session for the logged-in user.
func requireSession() (*session.Session, error) {
	if sess != nil {
		return sess, nil
	}
	id, err := currentUserID()
	if err != nil {
		return nil, err
	}
	sess, err = session.Open(repo, id, session.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// requireAdmin fails unless the logged-in user is the administrator.
func requireAdmin() error {
	id, err := currentUserID()
	if err != nil {
		return err
	}
	u, err := repo.GetUser(id)
	if err != nil {
		return err
	}
	if !repo.IsAdmin(u) {
		return fmt.Errorf("admin commands require logging in as %s", repo.AdminName())
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/ugmotion/config.json)")
}
