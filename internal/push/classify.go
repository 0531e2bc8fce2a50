package push

import (
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Classify maps a raw push error onto the status taxonomy. Matching is
// partly textual because the git transport folds server-side refusals
// into plain error strings.
func Classify(err error) Status {
	if err == nil || err == git.NoErrAlreadyUpToDate {
		return StatusOK
	}

	switch err {
	case transport.ErrRepositoryNotFound:
		return StatusNoRemoteRepo
	case transport.ErrAuthenticationRequired, transport.ErrAuthorizationFailed:
		return StatusAuthFailure
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Auth fail"),
		strings.Contains(msg, "not permitted"),
		strings.Contains(msg, "unable to authenticate"),
		strings.Contains(msg, "handshake failed"),
		strings.Contains(msg, "Permission denied"):
		return StatusAuthFailure
	case strings.Contains(msg, "repository not found"),
		strings.Contains(msg, "Repository does not exist"):
		return StatusNoRemoteRepo
	case strings.Contains(msg, "non-fast-forward"):
		return StatusRejectedNonFastForward
	case strings.Contains(msg, "cannot delete"),
		strings.Contains(msg, "deletion prohibited"):
		return StatusRejectedNoDelete
	case strings.Contains(msg, "remote ref moved"),
		strings.Contains(msg, "stale info"):
		return StatusRejectedRemoteChanged
	case strings.Contains(msg, "pre-receive hook declined"),
		strings.Contains(msg, "rejected"):
		return StatusRejectedOther
	case strings.Contains(msg, "out of memory"),
		strings.Contains(msg, "cannot allocate memory"):
		return StatusOutOfMemory
	}
	return StatusUnknown
}

// RefUpdates expands a push error into per-ref results. The transport
// reports ref-level rejections as "<reason>: <refname>" lines; anything
// else is attributed to the branch being pushed.
func RefUpdates(branchRef string, err error) []RefUpdate {
	status := Classify(err)
	if status == StatusOK {
		return []RefUpdate{{Ref: branchRef, Status: StatusOK}}
	}

	update := RefUpdate{Ref: branchRef, Status: status, Message: err.Error()}
	if idx := strings.LastIndex(err.Error(), "refs/"); idx >= 0 {
		if ref := strings.TrimSpace(err.Error()[idx:]); !strings.ContainsAny(ref, " \t") {
			update.Ref = ref
		}
	}
	return []RefUpdate{update}
}
