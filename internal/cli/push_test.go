package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docscantools/docsync/internal/errors"
	"github.com/docscantools/docsync/internal/project"
	"github.com/docscantools/docsync/internal/push"
)

func TestPushCommand_RejectsIncompleteIdentity(t *testing.T) {
	err := pushCommand(project.NewIdentity("en", "", "mat"))
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPush))
}

func TestSuggestionFor_CoversFailureStatuses(t *testing.T) {
	statuses := []push.Status{
		push.StatusAuthFailure,
		push.StatusNoRemoteRepo,
		push.StatusRejectedNonFastForward,
		push.StatusRejectedRemoteChanged,
		push.StatusOutOfMemory,
		push.StatusUnknown,
	}
	for _, s := range statuses {
		assert.NotEmpty(t, suggestionFor(s), s.String())
	}
}

func TestSuggestionFor_AuthMentionsLogin(t *testing.T) {
	assert.True(t, strings.Contains(suggestionFor(push.StatusAuthFailure), "login"))
}
