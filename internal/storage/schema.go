// ABOUTME: SQLite schema definition, additive migrations, and admin seeding.
// ABOUTME: Initialize is idempotent and runs in one transaction on every Open.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/ugmotion/ugmotion/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		email TEXT,
		age TEXT,
		sex TEXT,
		height TEXT,
		weight TEXT,
		password TEXT,
		profileImageUri TEXT,
		selectedEquipment TEXT
	);

	CREATE TABLE IF NOT EXISTS plan_days (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		day_name TEXT NOT NULL,
		focus TEXT
	);

	CREATE TABLE IF NOT EXISTS routine_activities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_day_id INTEGER NOT NULL REFERENCES plan_days(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		sets INTEGER,
		reps INTEGER
	);

	CREATE TABLE IF NOT EXISTS workout_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		routine_activity_id INTEGER REFERENCES routine_activities(id) ON DELETE SET NULL,
		date TEXT NOT NULL,
		weight REAL,
		reps INTEGER,
		completed INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS water_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		amount_ml REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		meal_type TEXT,
		food_name TEXT,
		calories REAL DEFAULT 0,
		protein_g REAL DEFAULT 0,
		carbs_g REAL DEFAULT 0,
		fat_g REAL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS daily_goals (
		date TEXT NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		water_target REAL,
		calorie_target REAL,
		protein_target REAL,
		PRIMARY KEY (date, user_id)
	);
`

const indexes = `
	CREATE INDEX IF NOT EXISTS idx_plan_days_user ON plan_days(user_id);
	CREATE INDEX IF NOT EXISTS idx_routine_activities_day ON routine_activities(plan_day_id);
	CREATE INDEX IF NOT EXISTS idx_workout_logs_user_date ON workout_logs(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_water_logs_user_date ON water_logs(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_food_logs_user_date ON food_logs(user_id, date);
`

// additiveColumns are columns added to tables created by older releases.
var additiveColumns = []struct {
	table, column, decl string
}{
	{"users", "email", "TEXT"},
	{"users", "profileImageUri", "TEXT"},
	{"users", "selectedEquipment", "TEXT"},
	{"plan_days", "user_id", "INTEGER REFERENCES users(id) ON DELETE CASCADE"},
	{"workout_logs", "user_id", "INTEGER REFERENCES users(id) ON DELETE CASCADE"},
	{"water_logs", "user_id", "INTEGER REFERENCES users(id) ON DELETE CASCADE"},
	{"food_logs", "user_id", "INTEGER REFERENCES users(id) ON DELETE CASCADE"},
	{"food_logs", "meal_type", "TEXT"},
	{"food_logs", "food_name", "TEXT"},
	{"food_logs", "protein_g", "REAL DEFAULT 0"},
	{"food_logs", "carbs_g", "REAL DEFAULT 0"},
	{"food_logs", "fat_g", "REAL DEFAULT 0"},
	{"daily_goals", "protein_target", "REAL"},
}

// Initialize creates or upgrades the schema and seeds the admin account.
func (d *DB) Initialize() error {
	tx, err := d.db.Begin()
	if err != nil {
		return classify("begin schema transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := repairDailyGoals(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(schema); err != nil {
		return classify("create tables", err)
	}
	for _, c := range additiveColumns {
		if err := addColumnIfMissing(tx, c.table, c.column, c.decl); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(indexes); err != nil {
		return classify("create indexes", err)
	}
	if err := d.seedAdmin(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit schema", err)
	}
	return nil
}

// repairDailyGoals drops daily_goals when it predates the (date, user_id) key.
// Goal rows in the old shape are not attributable to a user and are discarded.
func repairDailyGoals(tx *sql.Tx) error {
	cols, err := tableColumns(tx, "daily_goals")
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}
	pk := 0
	for _, c := range cols {
		if c.PrimaryKey {
			pk++
		}
	}
	if pk == 2 {
		return nil
	}
	if _, err := tx.Exec("DROP TABLE daily_goals"); err != nil {
		return classify("drop daily_goals", err)
	}
	return nil
}

func addColumnIfMissing(tx *sql.Tx, table, column, decl string) error {
	cols, err := tableColumns(tx, table)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if c.Name == column {
			return nil
		}
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)
	if _, err := tx.Exec(stmt); err != nil {
		return classify("add column "+table+"."+column, err)
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// tableColumns returns PRAGMA table_info for a table, or nil if it does not exist.
func tableColumns(q queryer, table string) ([]ColumnInfo, error) {
	rows, err := q.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, classify("table info "+table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid     int
			c       ColumnInfo
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, classify("scan table info", err)
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk > 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("table info "+table, err)
	}
	return cols, nil
}

func (d *DB) seedAdmin(tx *sql.Tx) error {
	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE name = ?", d.admin).Scan(&count); err != nil {
		return classify("check admin", err)
	}
	if count > 0 {
		return nil
	}
	hash, err := d.hashPassword(d.adminPw)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO users (name, age, sex, height, weight, password, selectedEquipment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, d.admin, models.NotSet, models.NotSet, models.NotSet, models.NotSet, hash, models.EncodeEquipment(nil))
	if err != nil {
		return classify("seed admin", err)
	}
	return nil
}

// sqlExecer is satisfied by *sql.DB and *sql.Tx.
type sqlExecer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
