package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLocked = errors.New("could not write index: index.lock exists")

func newLockTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "proj"))
	require.NoError(t, err)
	r.sleep = func(time.Duration) {} // no real waiting in tests
	return r
}

func TestIsLockError(t *testing.T) {
	assert.True(t, isLockError(errLocked))
	assert.True(t, isLockError(errors.New("cannot lock ref")))
	assert.False(t, isLockError(nil))
	assert.False(t, isLockError(errors.New("repository not found")))
}

func TestWithLockRetry_SucceedsWithoutRetry(t *testing.T) {
	r := newLockTestRepo(t)
	calls := 0

	err := r.withLockRetry(func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithLockRetry_NonLockErrorReturnsImmediately(t *testing.T) {
	r := newLockTestRepo(t)
	boom := errors.New("object not found")
	calls := 0

	err := r.withLockRetry(func() error {
		calls++
		return boom
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestWithLockRetry_RecoversAfterTransientLock(t *testing.T) {
	r := newLockTestRepo(t)
	calls := 0

	err := r.withLockRetry(func() error {
		calls++
		if calls < 3 {
			return errLocked
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithLockRetry_BoundedThenForcedAttempt(t *testing.T) {
	r := newLockTestRepo(t)
	sleeps := 0
	r.sleep = func(d time.Duration) {
		sleeps++
		assert.Equal(t, defaultLockDelay, d)
	}

	lockPath := filepath.Join(r.Path(), ".git", "index.lock")
	require.NoError(t, os.WriteFile(lockPath, []byte{}, 0644))

	calls := 0
	err := r.withLockRetry(func() error {
		calls++
		return errLocked
	})

	// Initial attempt + 30 retries + one forced attempt, never more.
	assert.Equal(t, 1+defaultLockRetries+1, calls)
	assert.Equal(t, defaultLockRetries, sleeps)
	assert.Equal(t, errLocked, err)

	// The stale lock file was force-removed before the final attempt.
	_, statErr := os.Stat(lockPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWithLockRetry_ForcedAttemptCanSucceed(t *testing.T) {
	r := newLockTestRepo(t)

	lockPath := filepath.Join(r.Path(), ".git", "index.lock")
	require.NoError(t, os.WriteFile(lockPath, []byte{}, 0644))

	calls := 0
	err := r.withLockRetry(func() error {
		calls++
		// The "other process" never releases; only removing the
		// lock file lets the operation through.
		if _, statErr := os.Stat(lockPath); statErr == nil {
			return errLocked
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1+defaultLockRetries+1, calls)
}
