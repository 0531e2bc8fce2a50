// Package push drives the full upload flow: commit local work, resolve
// the server-side repository, point the remote at it, and push over SSH.
package push

import "strings"

// Status classifies the outcome of a push attempt.
type Status int

const (
	// StatusOK covers both accepted updates and an already up-to-date remote.
	StatusOK Status = iota
	StatusUnknown
	StatusRejectedOther
	StatusRejectedNoDelete
	StatusRejectedRemoteChanged
	StatusRejectedNonFastForward
	StatusNoRemoteRepo
	StatusAuthFailure
	StatusOutOfMemory
)

var statusNames = map[Status]string{
	StatusOK:                     "ok",
	StatusUnknown:                "unknown failure",
	StatusRejectedOther:          "rejected",
	StatusRejectedNoDelete:       "rejected (delete not allowed)",
	StatusRejectedRemoteChanged:  "rejected (remote changed)",
	StatusRejectedNonFastForward: "rejected (non-fast-forward)",
	StatusNoRemoteRepo:           "no repository on server",
	StatusAuthFailure:            "not authorized",
	StatusOutOfMemory:            "out of memory",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown failure"
}

// Rejected reports whether the server refused the update. Rejections mean
// the local history diverged from the server's and need reconciliation,
// unlike transport or auth failures which are retryable as-is.
func (s Status) Rejected() bool {
	switch s {
	case StatusRejectedOther, StatusRejectedNoDelete,
		StatusRejectedRemoteChanged, StatusRejectedNonFastForward:
		return true
	}
	return false
}

// RefUpdate is the result of pushing a single reference.
type RefUpdate struct {
	Ref     string
	Status  Status
	Message string
}

// Outcome is the aggregate result of a push attempt.
type Outcome struct {
	Status  Status
	Message string
}

// OK reports whether every ref was accepted.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// Summarize folds per-ref results into a single outcome. The aggregate
// status is the worst individual one, so a push with nine accepted refs
// and one rejection still surfaces as rejected.
func Summarize(updates []RefUpdate) Outcome {
	if len(updates) == 0 {
		return Outcome{Status: StatusOK}
	}

	worst := StatusOK
	var lines []string
	for _, u := range updates {
		if u.Status > worst {
			worst = u.Status
		}
		msg := u.Message
		if msg == "" {
			msg = u.Status.String()
		}
		lines = append(lines, u.Ref+": "+msg)
	}
	return Outcome{Status: worst, Message: strings.Join(lines, "\n")}
}
