package sshkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteURL_ScpStyle(t *testing.T) {
	out, err := RewriteURL("git@git.example.org:alice/en_ulb_mat_text.git", 2222)
	require.NoError(t, err)
	assert.Equal(t, "ssh://git@git.example.org:2222/alice/en_ulb_mat_text.git", out)
}

func TestRewriteURL_SSHScheme(t *testing.T) {
	out, err := RewriteURL("ssh://git@git.example.org/alice/repo.git", 2222)
	require.NoError(t, err)
	assert.Equal(t, "ssh://git@git.example.org:2222/alice/repo.git", out)
}

func TestRewriteURL_SSHSchemeReplacesPort(t *testing.T) {
	out, err := RewriteURL("ssh://git@git.example.org:22/alice/repo.git", 2222)
	require.NoError(t, err)
	assert.Equal(t, "ssh://git@git.example.org:2222/alice/repo.git", out)
}

func TestRewriteURL_Unrecognized(t *testing.T) {
	_, err := RewriteURL("https://git.example.org/alice/repo.git", 22)
	assert.Error(t, err)
}

func TestHost(t *testing.T) {
	assert.Equal(t, "git.example.org", Host("git@git.example.org:alice/repo.git"))
	assert.Equal(t, "git.example.org", Host("ssh://git@git.example.org:2222/alice/repo.git"))
	assert.Equal(t, "", Host("not-a-clone-url"))
}

func TestResolvePort_ExplicitWins(t *testing.T) {
	assert.Equal(t, 2222, ResolvePort("git.example.org", 2222))
}

func TestResolvePort_DefaultsTo22(t *testing.T) {
	// No ssh_config entry for this host in any realistic test
	// environment, so the configured default passes through.
	assert.Equal(t, 22, ResolvePort("git.docsync-test.invalid", 22))
	assert.Equal(t, 22, ResolvePort("git.docsync-test.invalid", 0))
}
