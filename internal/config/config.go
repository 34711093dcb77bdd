// ABOUTME: UGMotion configuration management backed by viper.
// ABOUTME: Reads a JSON config file with UGMOTION_* environment overrides and opens storage.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/ugmotion/ugmotion/internal/kvstore"
	"github.com/ugmotion/ugmotion/internal/storage"
)

// EnvPrefix is prepended to every environment override, e.g. UGMOTION_DATA_DIR.
const EnvPrefix = "UGMOTION"

// Config stores ugmotion configuration.
type Config struct {
	// DataDir is the root directory for ugmotion.db and the session store.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/ugmotion.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// AdminName and AdminPassword seed the administrator account on first run.
	AdminName     string `json:"admin_name,omitempty" mapstructure:"admin_name"`
	AdminPassword string `json:"admin_password,omitempty" mapstructure:"admin_password"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`

	path string
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return storage.DefaultDBPath(c.GetDataDir())
}

// SessionDir returns the device key-value store directory.
func (c *Config) SessionDir() string {
	return filepath.Join(c.GetDataDir(), "session")
}

// GetLogLevel parses LogLevel, defaulting to info.
func (c *Config) GetLogLevel() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite repository with the configured admin account.
func (c *Config) OpenStorage(opts ...storage.Option) (storage.Repository, error) {
	opts = append([]storage.Option{storage.WithAdmin(c.AdminName, c.AdminPassword)}, opts...)
	db, err := storage.Open(c.DBPath(), opts...)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// OpenKV opens the device key-value store.
func (c *Config) OpenKV() (*kvstore.Store, error) {
	return kvstore.Open(c.SessionDir())
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "ugmotion", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults plus environment overrides.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Defaults register every key so environment overrides apply during Unmarshal
	v.SetDefault("data_dir", "")
	v.SetDefault("admin_name", storage.DefaultAdminName)
	v.SetDefault("admin_password", storage.DefaultAdminPassword)
	v.SetDefault("log_level", "info")

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.path = path
	return &cfg, nil
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	if c.path == "" {
		return GetConfigPath()
	}
	return c.path
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := c.Path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
