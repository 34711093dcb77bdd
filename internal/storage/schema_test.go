// ABOUTME: Tests for schema initialization and legacy migrations.
// ABOUTME: Covers idempotency, user_id backfill, daily_goals key repair and admin seeding.
package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ugmotion/ugmotion/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestInitializeIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ugmotion.db")

	for i := 0; i < 3; i++ {
		db, err := Open(dbPath, WithHashCost(bcrypt.MinCost))
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i, err)
		}
		if err := db.Initialize(); err != nil {
			t.Fatalf("Initialize #%d failed: %v", i, err)
		}
		users, err := db.ListUsers()
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 1 {
			t.Fatalf("expected exactly one seeded user, got %d", len(users))
		}
		db.Close()
	}
}

func TestAdminSeed(t *testing.T) {
	db := setupTestDB(t)

	admin, err := db.GetUserByName("admin")
	if err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if admin.Name != DefaultAdminName {
		t.Errorf("admin name = %q, want %q", admin.Name, DefaultAdminName)
	}
	if admin.Age != "N/A" || admin.Height != "N/A" {
		t.Errorf("admin profile fields should be N/A, got %+v", admin)
	}
	if admin.PasswordHash == nil || *admin.PasswordHash == DefaultAdminPassword {
		t.Error("admin password should be stored hashed")
	}
	if len(admin.Equipment) != 0 {
		t.Errorf("admin equipment = %v, want empty", admin.Equipment)
	}
	if !db.IsAdmin(admin) {
		t.Error("IsAdmin(admin) = false")
	}
	usingDefault, err := db.UsingDefaultAdminPassword()
	if err != nil {
		t.Fatalf("UsingDefaultAdminPassword failed: %v", err)
	}
	if !usingDefault {
		t.Error("default password should be reported")
	}
	if _, err := db.Authenticate("ADMIN", DefaultAdminPassword); err != nil {
		t.Errorf("Authenticate(admin) failed: %v", err)
	}
}

func TestAdminSeedConfigured(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ugmotion.db")
	db, err := Open(dbPath, WithAdmin("root", "hunter22"), WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Authenticate("root", "hunter22"); err != nil {
		t.Errorf("configured admin should authenticate: %v", err)
	}
	usingDefault, err := db.UsingDefaultAdminPassword()
	if err != nil {
		t.Fatalf("UsingDefaultAdminPassword failed: %v", err)
	}
	if usingDefault {
		t.Error("configured password reported as default")
	}
	if _, err := db.GetUserByName(DefaultAdminName); err == nil {
		t.Error("default admin should not be seeded when another name is configured")
	}
}

func TestDefaultAdminPasswordCheckedAgainstStoredHash(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ugmotion.db")
	db, err := Open(dbPath, WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	db.Close()

	// The account already exists, so a newly configured password does not reseed it.
	db, err = Open(dbPath, WithAdmin("", "S3cret!"), WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	usingDefault, err := db.UsingDefaultAdminPassword()
	if err != nil {
		t.Fatalf("UsingDefaultAdminPassword failed: %v", err)
	}
	if !usingDefault {
		t.Error("stored admin still accepts the default password and should be reported")
	}

	admin, err := db.GetUserByName(DefaultAdminName)
	if err != nil {
		t.Fatalf("GetUserByName failed: %v", err)
	}
	if err := db.UpdatePassword(admin.ID, "rotated-pw"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	usingDefault, err = db.UsingDefaultAdminPassword()
	if err != nil {
		t.Fatalf("UsingDefaultAdminPassword failed: %v", err)
	}
	if usingDefault {
		t.Error("rotated admin password reported as default")
	}
}

func TestMigrateLegacySchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	legacy := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			age TEXT, sex TEXT, height TEXT, weight TEXT, password TEXT
		);
		CREATE TABLE plan_days (id INTEGER PRIMARY KEY AUTOINCREMENT, day_name TEXT NOT NULL, focus TEXT);
		CREATE TABLE water_logs (id INTEGER PRIMARY KEY AUTOINCREMENT, date TEXT NOT NULL, amount_ml REAL NOT NULL);
		CREATE TABLE food_logs (id INTEGER PRIMARY KEY AUTOINCREMENT, date TEXT NOT NULL, calories REAL);
		CREATE TABLE daily_goals (date TEXT PRIMARY KEY, water_target REAL, calorie_target REAL);
		INSERT INTO users (name, age, sex, height, weight, password) VALUES ('old', '30', 'F', '165', '60', 'plain');
		INSERT INTO plan_days (day_name, focus) VALUES ('Mon', 'Push');
		INSERT INTO water_logs (date, amount_ml) VALUES ('2024-01-01', 250);
		INSERT INTO daily_goals (date, water_target) VALUES ('2024-01-01', 3000);
	`
	if _, err := raw.Exec(legacy); err != nil {
		t.Fatalf("create legacy schema: %v", err)
	}
	raw.Close()

	db, err := Open(dbPath, WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("Open legacy failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"plan_days", "workout_logs", "water_logs", "food_logs"} {
		cols, err := tableColumns(db.db, table)
		if err != nil {
			t.Fatalf("tableColumns(%s): %v", table, err)
		}
		if !hasColumn(cols, "user_id") {
			t.Errorf("%s missing user_id after migration", table)
		}
	}

	// Old rows keep a NULL owner
	if n := countRows(t, db, "SELECT COUNT(*) FROM water_logs WHERE user_id IS NULL"); n != 1 {
		t.Errorf("legacy water rows with NULL user_id = %d, want 1", n)
	}

	goalCols, err := tableColumns(db.db, "daily_goals")
	if err != nil {
		t.Fatalf("tableColumns(daily_goals): %v", err)
	}
	pk := 0
	for _, c := range goalCols {
		if c.PrimaryKey {
			pk++
		}
	}
	if pk != 2 {
		t.Errorf("daily_goals primary key columns = %d, want 2", pk)
	}
	if !hasColumn(goalCols, "protein_target") {
		t.Error("daily_goals missing protein_target")
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM daily_goals"); n != 0 {
		t.Errorf("legacy goal rows should be dropped, got %d", n)
	}

	// Legacy plaintext password is accepted and upgraded
	u, err := db.Authenticate("OLD", "plain")
	if err != nil {
		t.Fatalf("legacy Authenticate failed: %v", err)
	}
	if u.PasswordHash == nil || !isBcryptHash(*u.PasswordHash) {
		t.Error("legacy password should be upgraded to a hash")
	}
	if _, err := db.GetUserByName(DefaultAdminName); err != nil {
		t.Errorf("admin should be seeded into legacy database: %v", err)
	}
}

func TestMigrateAddsProteinTarget(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "goals.db")
	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	_, err = raw.Exec(`CREATE TABLE daily_goals (
		date TEXT NOT NULL, user_id INTEGER NOT NULL,
		water_target REAL, calorie_target REAL,
		PRIMARY KEY (date, user_id)
	); INSERT INTO daily_goals (date, user_id, water_target) VALUES ('2024-01-01', 1, 2500);`)
	if err != nil {
		t.Fatalf("create goals table: %v", err)
	}
	raw.Close()

	db, err := Open(dbPath, WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	cols, err := tableColumns(db.db, "daily_goals")
	if err != nil {
		t.Fatalf("tableColumns: %v", err)
	}
	if !hasColumn(cols, "protein_target") {
		t.Error("protein_target not added")
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM daily_goals"); n != 1 {
		t.Errorf("two-column keyed goals should be kept, got %d rows", n)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)

	var fk int
	if err := db.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	err := db.ReplaceWeeklyPlan(9999, []models.DayPlan{{Day: "Mon", Focus: "Push"}})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("plan for unknown user: got %v, want ErrInvalid", err)
	}
}

func hasColumn(cols []ColumnInfo, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}
