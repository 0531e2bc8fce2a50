package gitrepo

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Index-lock contention policy. Translators work offline on a single
// device, so a lock that will not clear is far more likely stale than held
// by a live writer: bounded retries, then force-remove the lock file and
// try once more.
const (
	defaultLockRetries = 30
	defaultLockDelay   = 500 * time.Millisecond
)

// isLockError reports whether err looks like git index-lock contention.
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "index.lock") ||
		strings.Contains(msg, "lock failed") ||
		strings.Contains(msg, "cannot lock")
}

// withLockRetry runs op, retrying lock failures up to lockRetries times
// with a fixed delay. If the lock still will not clear, the index lock
// file is removed and op runs one final time; that last error, if any, is
// returned as-is.
func (r *Repo) withLockRetry(op func() error) error {
	err := op()
	if !isLockError(err) {
		return err
	}

	for i := 0; i < r.lockRetries; i++ {
		r.sleep(r.lockDelay)
		err = op()
		if !isLockError(err) {
			return err
		}
	}

	r.forceUnlock()
	return op()
}

// forceUnlock removes a stale index lock file if present.
func (r *Repo) forceUnlock() {
	lockPath := filepath.Join(r.path, ".git", "index.lock")
	if _, err := os.Stat(lockPath); err != nil {
		return
	}
	r.log.Warn("removing stale index lock at %s", lockPath)
	if err := os.Remove(lockPath); err != nil {
		r.log.Error("failed to remove index lock: %v", err)
	}
}
