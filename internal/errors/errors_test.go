package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Config file not found", "Run 'docsync init' first")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Equal(t, "Config file not found", err.Message)
	assert.Equal(t, "Run 'docsync init' first", err.Suggestion)
	assert.Nil(t, err.Cause)
}

func TestWrap_DefaultsToGitCode(t *testing.T) {
	cause := stderrors.New("index.lock exists")
	err := Wrap(cause, "Commit failed")

	assert.Equal(t, ErrGit, err.Code)
	assert.Equal(t, cause, err.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapWithCode(cause, ErrAPI, "Server unreachable", "Check the server URL in your config")

	assert.Equal(t, ErrAPI, err.Code)
	assert.Equal(t, "Server unreachable", err.Message)
	assert.Equal(t, "Check the server URL in your config", err.Suggestion)
	assert.Equal(t, cause, err.Cause)
}

func TestError_Format(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := WrapWithCode(cause, ErrAPI, "Could not reach the server", "Check your network")

	out := err.Error()
	assert.True(t, strings.HasPrefix(out, "✗ Could not reach the server"))
	assert.Contains(t, out, "dial tcp: connection refused")
	assert.Contains(t, out, "Check your network")
}

func TestError_FormatWithoutCauseOrSuggestion(t *testing.T) {
	err := New(ErrSSH, "Key generation failed", "")

	out := err.Error()
	assert.Contains(t, out, "✗ Key generation failed")
	assert.NotContains(t, out, "\n\n  \n")
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(cause, "wrapped")

	assert.True(t, stderrors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrAuth, "Not authorized", "Log in with 'docsync login'")

	assert.True(t, IsCode(err, ErrAuth))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(nil, ErrAuth))
	assert.False(t, IsCode(stderrors.New("plain"), ErrAuth))
}

func TestIsCode_Wrapped(t *testing.T) {
	inner := New(ErrProfile, "Unsupported profile version", "")
	outer := fmt.Errorf("loading session: %w", inner)

	assert.True(t, IsCode(outer, ErrProfile))
}
