// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required) over a single connection.
package storage

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// Default credentials for the seeded administrator account.
const (
	DefaultAdminName     = "Admin"
	DefaultAdminPassword = "Admin123"
)

// dsnPragmas are applied by the driver to every new connection.
const dsnPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// DB wraps the SQLite database connection.
type DB struct {
	db       *sql.DB
	dbPath   string
	now      func() time.Time
	admin    string
	adminPw  string
	hashCost int
}

// Option configures a DB at Open time.
type Option func(*DB)

// WithClock overrides the clock used to decide "today".
func WithClock(now func() time.Time) Option {
	return func(d *DB) { d.now = now }
}

// WithAdmin sets the credentials of the seeded administrator account.
func WithAdmin(name, password string) Option {
	return func(d *DB) {
		if name != "" {
			d.admin = name
		}
		if password != "" {
			d.adminPw = password
		}
	}
}

// WithHashCost sets the bcrypt cost used for new password hashes.
func WithHashCost(cost int) Option {
	return func(d *DB) { d.hashCost = cost }
}

// Open opens or creates a SQLite database at the given path and initializes the schema.
func Open(dbPath string, opts ...Option) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection for the process lifetime keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: %w: %w", ErrUnavailable, err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{
		db:       db,
		dbPath:   dbPath,
		now:      time.Now,
		admin:    DefaultAdminName,
		adminPw:  DefaultAdminPassword,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.Initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + dsnPragmas
	}
	return path + "?" + dsnPragmas
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "ugmotion")
}

// DefaultDBPath returns the database path inside a data directory.
func DefaultDBPath(dataDir string) string {
	if dataDir == "" {
		dataDir = DataDir()
	}
	return filepath.Join(dataDir, "ugmotion.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// AdminName returns the configured administrator name.
func (d *DB) AdminName() string {
	return d.admin
}

// UsingDefaultAdminPassword reports whether the stored administrator credential
// still accepts the built-in default password.
func (d *DB) UsingDefaultAdminPassword() (bool, error) {
	admin, err := d.GetUserByName(d.admin)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if admin.PasswordHash == nil {
		return false, nil
	}
	stored := *admin.PasswordHash
	if !isBcryptHash(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(DefaultAdminPassword)) == 1, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(DefaultAdminPassword)) == nil, nil
}

// Today returns the local calendar date used to bucket logs and goals.
func (d *DB) Today() string {
	return d.now().Local().Format(DateLayout)
}

// DateLayout is the calendar date format stored in every date column.
const DateLayout = "2006-01-02"

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
