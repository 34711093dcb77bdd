// ABOUTME: Device-local key-value store on badger for login state, sleep and steps.
// ABOUTME: Holds small values that do not belong in the relational database.
package kvstore

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
)

var (
	// ErrNoSleepSession is returned when stopping sleep tracking that was never started.
	ErrNoSleepSession = errors.New("no sleep session in progress")
	// ErrInvalidValue is returned for values that cannot be stored.
	ErrInvalidValue = errors.New("invalid value")
)

const (
	keyLoggedInUser = "loggedInUserId"
	keySessionToken = "sessionToken"
	keyBedtime      = "bedtime"
	keyLastSleep    = "lastSleep"
	stepsPrefix     = "steps:"
)

// Store wraps a badger database.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store that lives only for the process.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetLoggedInUser records the active user and returns a fresh session token.
func (s *Store) SetLoggedInUser(id int64) (string, error) {
	token := uuid.NewString()
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyLoggedInUser), []byte(strconv.FormatInt(id, 10))); err != nil {
			return err
		}
		return txn.Set([]byte(keySessionToken), []byte(token))
	})
	if err != nil {
		return "", fmt.Errorf("set logged in user: %w", err)
	}
	return token, nil
}

// LoggedInUser returns the active user id and the token issued when they
// logged in. A stored id without a token is not a login.
func (s *Store) LoggedInUser() (int64, string, bool, error) {
	raw, ok, err := s.get(keyLoggedInUser)
	if err != nil || !ok {
		return 0, "", false, err
	}
	token, ok, err := s.get(keySessionToken)
	if err != nil || !ok {
		return 0, "", false, err
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, "", false, fmt.Errorf("parse logged in user: %w", err)
	}
	return id, string(token), true, nil
}

// ClearLoggedInUser forgets the active user.
func (s *Store) ClearLoggedInUser() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(keyLoggedInUser)); err != nil {
			return err
		}
		return txn.Delete([]byte(keySessionToken))
	})
	if err != nil {
		return fmt.Errorf("clear logged in user: %w", err)
	}
	return nil
}

// StartSleep records a bedtime, replacing any session in progress.
func (s *Store) StartSleep(at time.Time) error {
	return s.set(keyBedtime, []byte(at.Format(time.RFC3339Nano)))
}

// Bedtime returns the start of the sleep session in progress, if any.
func (s *Store) Bedtime() (time.Time, bool, error) {
	raw, ok, err := s.get(keyBedtime)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse bedtime: %w", err)
	}
	return t, true, nil
}

// StopSleep ends the session in progress and returns its duration.
// Non-positive durations end the session without being recorded.
func (s *Store) StopSleep(now time.Time) (time.Duration, error) {
	bedtime, ok, err := s.Bedtime()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNoSleepSession
	}

	d := now.Sub(bedtime)
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(keyBedtime)); err != nil {
			return err
		}
		if d <= 0 {
			return nil
		}
		return txn.Set([]byte(keyLastSleep), []byte(strconv.FormatInt(int64(d), 10)))
	})
	if err != nil {
		return 0, fmt.Errorf("stop sleep: %w", err)
	}
	if d <= 0 {
		return 0, nil
	}
	return d, nil
}

// LastSleep returns the most recently recorded sleep duration.
func (s *Store) LastSleep() (time.Duration, bool, error) {
	raw, ok, err := s.get(keyLastSleep)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse last sleep: %w", err)
	}
	return time.Duration(n), true, nil
}

// SetSteps stores the step count for a date.
func (s *Store) SetSteps(date string, steps int) error {
	if date == "" || steps < 0 {
		return fmt.Errorf("set steps: %w", ErrInvalidValue)
	}
	return s.set(stepsPrefix+date, []byte(strconv.Itoa(steps)))
}

// Steps returns the step count for a date, zero when none was stored.
func (s *Store) Steps(date string) (int, error) {
	raw, ok, err := s.get(stepsPrefix + date)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("parse steps: %w", err)
	}
	return n, nil
}

func (s *Store) set(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}
