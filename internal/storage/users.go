// ABOUTME: User account CRUD, authentication, and cascading deletion.
// ABOUTME: Names are unique case-insensitively; passwords are stored as bcrypt hashes.
package storage

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ugmotion/ugmotion/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, name, email, age, sex, height, weight, password, profileImageUri, selectedEquipment`

// CreateUser registers a new account with placeholder profile fields.
func (d *DB) CreateUser(name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, fmt.Errorf("create user: %w: name and password are required", ErrInvalid)
	}

	hash, err := d.hashPassword(password)
	if err != nil {
		return nil, err
	}

	result, err := d.db.Exec(`
		INSERT INTO users (name, age, sex, height, weight, password, selectedEquipment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, name, models.NotSet, models.NotSet, models.NotSet, models.NotSet, hash, models.EncodeEquipment(nil))
	if err != nil {
		return nil, classify("create user "+name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, classify("create user", err)
	}
	return d.GetUser(id)
}

// GetUser retrieves a user by id.
func (d *DB) GetUser(id int64) (*models.User, error) {
	row := d.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, classify(fmt.Sprintf("get user %d", id), err)
	}
	return u, nil
}

// GetUserByName retrieves a user by name, ignoring case.
func (d *DB) GetUserByName(name string) (*models.User, error) {
	row := d.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE name = ?`, strings.TrimSpace(name))
	u, err := scanUser(row)
	if err != nil {
		return nil, classify("get user "+name, err)
	}
	return u, nil
}

// ListUsers returns every account ordered by id.
func (d *DB) ListUsers() ([]*models.User, error) {
	rows, err := d.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, classify("list users", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list users", err)
	}
	return users, nil
}

// NameTaken reports whether another user already has the name, ignoring case.
// exceptID excludes the caller's own row so an unchanged name is not a collision.
func (d *DB) NameTaken(name string, exceptID int64) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM users WHERE name = ? AND id != ?`,
		strings.TrimSpace(name), exceptID).Scan(&count)
	if err != nil {
		return false, classify("check name", err)
	}
	return count > 0, nil
}

// UpdateProfile writes every profile field in one statement. Id and password are untouched.
func (d *DB) UpdateProfile(id int64, p models.ProfileUpdate) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("update profile: %w: name is required", ErrInvalid)
	}

	result, err := d.db.Exec(`
		UPDATE users
		SET name = ?, email = ?, age = ?, sex = ?, height = ?, weight = ?,
			profileImageUri = ?, selectedEquipment = ?
		WHERE id = ?
	`, name, nullString(p.Email), p.Age, p.Sex, p.Height, p.Weight,
		nullString(p.ProfileImageURI), models.EncodeEquipment(p.Equipment), id)
	if err != nil {
		return classify(fmt.Sprintf("update profile %d", id), err)
	}
	return expectAffected(result, fmt.Sprintf("update profile %d", id))
}

// UpdatePassword replaces a user's password.
func (d *DB) UpdatePassword(id int64, password string) error {
	if password == "" {
		return fmt.Errorf("update password: %w: password is required", ErrInvalid)
	}
	hash, err := d.hashPassword(password)
	if err != nil {
		return err
	}
	result, err := d.db.Exec(`UPDATE users SET password = ? WHERE id = ?`, hash, id)
	if err != nil {
		return classify(fmt.Sprintf("update password %d", id), err)
	}
	return expectAffected(result, fmt.Sprintf("update password %d", id))
}

// Authenticate checks a name/password pair. Rows still holding a plaintext
// password from older releases are accepted once and rewritten as a hash.
func (d *DB) Authenticate(name, password string) (*models.User, error) {
	u, err := d.GetUserByName(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("authenticate %s: %w", name, ErrInvalidCredentials)
		}
		return nil, err
	}
	if u.PasswordHash == nil {
		return nil, fmt.Errorf("authenticate %s: %w", name, ErrInvalidCredentials)
	}

	stored := *u.PasswordHash
	if isBcryptHash(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return nil, fmt.Errorf("authenticate %s: %w", name, ErrInvalidCredentials)
		}
		return u, nil
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return nil, fmt.Errorf("authenticate %s: %w", name, ErrInvalidCredentials)
	}
	if err := d.UpdatePassword(u.ID, password); err != nil {
		return nil, fmt.Errorf("upgrade password: %w", err)
	}
	return d.GetUser(u.ID)
}

// DeleteUser removes a user and every row that belongs to them.
func (d *DB) DeleteUser(id int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return classify("begin delete user", err)
	}
	defer func() { _ = tx.Rollback() }()

	// routine_activities cascade from plan_days
	for _, table := range []string{"food_logs", "water_logs", "daily_goals", "workout_logs", "plan_days"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", id); err != nil {
			return classify("delete "+table, err)
		}
	}

	result, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return classify(fmt.Sprintf("delete user %d", id), err)
	}
	if err := expectAffected(result, fmt.Sprintf("delete user %d", id)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit delete user", err)
	}
	return nil
}

// IsAdmin reports whether the user is the administrator account.
func (d *DB) IsAdmin(u *models.User) bool {
	return u != nil && strings.EqualFold(u.Name, d.admin)
}

func (d *DB) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w: %w", ErrInvalid, err)
	}
	return string(hash), nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var email, age, sex, height, weight, password, image, equipment sql.NullString

	if err := row.Scan(&u.ID, &u.Name, &email, &age, &sex, &height, &weight, &password, &image, &equipment); err != nil {
		return nil, err
	}

	u.Age = orNotSet(age)
	u.Sex = orNotSet(sex)
	u.Height = orNotSet(height)
	u.Weight = orNotSet(weight)
	if email.Valid {
		u.Email = &email.String
	}
	if password.Valid {
		u.PasswordHash = &password.String
	}
	if image.Valid {
		u.ProfileImageURI = &image.String
	}
	eq, err := models.DecodeEquipment(equipment.String)
	if err != nil {
		eq = []models.Equipment{}
	}
	u.Equipment = eq

	return &u, nil
}

func orNotSet(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return models.NotSet
	}
	return s.String
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func expectAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
