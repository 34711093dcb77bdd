// ABOUTME: Administrative operations: schema inspection and bulk data reset.
// ABOUTME: Backs the admin console's debug view and clear-data action.
package storage

import (
	"database/sql"
	"fmt"
)

// ColumnInfo describes one column from PRAGMA table_info.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// ForeignKeyInfo describes one row from PRAGMA foreign_key_list.
type ForeignKeyInfo struct {
	From     string `json:"from"`
	Table    string `json:"table"`
	To       string `json:"to"`
	OnDelete string `json:"on_delete"`
}

// TableInfo summarizes a table's shape and size.
type TableInfo struct {
	Name        string           `json:"name"`
	Columns     []ColumnInfo     `json:"columns"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys"`
	Rows        int64            `json:"rows"`
}

// dataTables are cleared by ClearAllData, children first.
var dataTables = []string{"workout_logs", "routine_activities", "plan_days", "water_logs", "food_logs", "daily_goals"}

// InspectSchema describes every application table.
func (d *DB) InspectSchema() ([]TableInfo, error) {
	rows, err := d.db.Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, classify("list tables", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, classify("scan table name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, classify("list tables", err)
	}
	rows.Close()

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		t := TableInfo{Name: name}
		if t.Columns, err = tableColumns(d.db, name); err != nil {
			return nil, err
		}
		if t.ForeignKeys, err = foreignKeys(d.db, name); err != nil {
			return nil, err
		}
		if err := d.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&t.Rows); err != nil {
			return nil, classify("count "+name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func foreignKeys(q queryer, table string) ([]ForeignKeyInfo, error) {
	rows, err := q.Query(fmt.Sprintf("PRAGMA foreign_key_list(%q)", table))
	if err != nil {
		return nil, classify("foreign keys "+table, err)
	}
	defer rows.Close()

	fks := []ForeignKeyInfo{}
	for rows.Next() {
		var (
			id, seq         int
			fk              ForeignKeyInfo
			to              sql.NullString
			onUpdate, match string
		)
		if err := rows.Scan(&id, &seq, &fk.Table, &fk.From, &to, &onUpdate, &fk.OnDelete, &match); err != nil {
			return nil, classify("scan foreign key", err)
		}
		fk.To = to.String
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("foreign keys "+table, err)
	}
	return fks, nil
}

// ClearAllData deletes every plan, log and goal row. Accounts are kept.
func (d *DB) ClearAllData() error {
	tx, err := d.db.Begin()
	if err != nil {
		return classify("begin clear data", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range dataTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return classify("clear "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit clear data", err)
	}
	return nil
}
