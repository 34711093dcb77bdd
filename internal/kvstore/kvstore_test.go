// ABOUTME: Tests for the device key-value store.
// ABOUTME: Covers login state, sleep sessions, step counts and persistence.
package kvstore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoggedInUserLifecycle(t *testing.T) {
	s := newTestStore(t)

	_, _, ok, err := s.LoggedInUser()
	require.NoError(t, err)
	assert.False(t, ok)

	token, err := s.SetLoggedInUser(42)
	require.NoError(t, err)
	_, err = uuid.Parse(token)
	assert.NoError(t, err, "token should be a uuid")

	id, stored, ok, err := s.LoggedInUser()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, token, stored)

	second, err := s.SetLoggedInUser(42)
	require.NoError(t, err)
	assert.NotEqual(t, token, second, "each login gets a fresh token")

	require.NoError(t, s.ClearLoggedInUser())
	_, _, ok, err = s.LoggedInUser()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing twice is harmless
	assert.NoError(t, s.ClearLoggedInUser())
}

func TestLoggedInUserWithoutToken(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.set(keyLoggedInUser, []byte("42")))
	_, _, ok, err := s.LoggedInUser()
	require.NoError(t, err)
	assert.False(t, ok, "an id without a session token is not a login")
}

func TestSleepSession(t *testing.T) {
	s := newTestStore(t)
	bed := time.Date(2024, 3, 14, 22, 30, 0, 0, time.UTC)

	_, err := s.StopSleep(bed)
	assert.ErrorIs(t, err, ErrNoSleepSession)

	require.NoError(t, s.StartSleep(bed))
	got, ok, err := s.Bedtime()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, bed.Equal(got))

	d, err := s.StopSleep(bed.Add(7*time.Hour + 45*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+45*time.Minute, d)

	_, ok, err = s.Bedtime()
	require.NoError(t, err)
	assert.False(t, ok, "bedtime cleared after stop")

	last, ok, err := s.LastSleep()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, d, last)
}

func TestSleepNonPositiveNotRecorded(t *testing.T) {
	s := newTestStore(t)
	bed := time.Date(2024, 3, 14, 22, 0, 0, 0, time.UTC)

	require.NoError(t, s.StartSleep(bed))
	d, err := s.StopSleep(bed.Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, d)

	_, ok, err := s.LastSleep()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSteps(t *testing.T) {
	s := newTestStore(t)

	n, err := s.Steps("2024-03-15")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.SetSteps("2024-03-15", 8421))
	require.NoError(t, s.SetSteps("2024-03-14", 12000))

	n, err = s.Steps("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 8421, n)

	assert.ErrorIs(t, s.SetSteps("2024-03-15", -1), ErrInvalidValue)
	assert.ErrorIs(t, s.SetSteps("", 10), ErrInvalidValue)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	token, err := s.SetLoggedInUser(7)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	id, stored, ok, err := s.LoggedInUser()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, token, stored)
}
