// ABOUTME: Shared helpers for storage tests.
// ABOUTME: Opens a temp database with a controllable clock and cheap password hashing.
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ugmotion/ugmotion/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// testClock is a settable clock for date-bucketed queries.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advanceDays(n int) { c.t = c.t.AddDate(0, 0, n) }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)}
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, _ := setupTestDBWithClock(t)
	return db
}

func setupTestDBWithClock(t *testing.T) (*DB, *testClock) {
	t.Helper()
	clock := newTestClock()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath, WithClock(clock.now), WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, clock
}

func createTestUser(t *testing.T, db *DB, name string) *models.User {
	t.Helper()
	u, err := db.CreateUser(name, "secret")
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u
}

func countRows(t *testing.T, db *DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func float(v float64) *float64 { return &v }
