package session

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscantools/docsync/internal/errors"
	"github.com/docscantools/docsync/internal/gogs"
	"github.com/docscantools/docsync/internal/gogs/gogstest"
	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/paths"
	"github.com/docscantools/docsync/internal/sshkeys"
)

type fixture struct {
	session *Session
	server  *gogstest.FakeServer
	paths   paths.Provider
	log     *logger.BufferLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	p := paths.NewDirProvider(t.TempDir())
	require.NoError(t, paths.EnsureLayout(p))

	server := gogstest.New()
	t.Cleanup(server.Close)

	api := gogs.New(server.URL(), "docsync-test")
	log := logger.NewBufferLogger()
	api.SetLogger(log)

	s := New(api, p, sshkeys.NewProvisioner(p))
	s.SetLogger(log)
	return &fixture{session: s, server: server, paths: p, log: log}
}

// seedKeys drops placeholder key material so logout has something to remove.
func seedKeys(t *testing.T, p paths.Provider) {
	t.Helper()
	require.NoError(t, os.WriteFile(p.PrivateKey(), []byte("key"), 0600))
	require.NoError(t, os.WriteFile(p.PublicKey(), []byte("key.pub"), 0644))
}

func TestDeviceID_PersistsAcrossCalls(t *testing.T) {
	p := paths.NewDirProvider(t.TempDir())
	require.NoError(t, paths.EnsureLayout(p))

	first, err := DeviceID(p)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := DeviceID(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(p.DeviceIDPath())
	require.NoError(t, err)
	assert.Equal(t, first, strings.TrimSpace(string(data)))
}

func TestTokenName_DeterministicAndNormalized(t *testing.T) {
	p := paths.NewDirProvider(t.TempDir())
	require.NoError(t, paths.EnsureLayout(p))

	name, err := TokenName(p)
	require.NoError(t, err)
	again, err := TokenName(p)
	require.NoError(t, err)

	assert.Equal(t, name, again)
	assert.True(t, strings.HasPrefix(name, "docsync__"))
	assert.NotContains(t, name, " ")
}

func TestProfile_RoundTrip(t *testing.T) {
	p := paths.NewDirProvider(t.TempDir())
	require.NoError(t, paths.EnsureLayout(p))

	original := &Profile{
		FullName: "Alice Walker",
		User: &gogs.User{
			ID:       7,
			Username: "alice",
			FullName: "Alice Walker",
			Token:    &gogs.Token{ID: 3, Name: "docsync__test", Sha1: "s3cret"},
		},
		TermsLastAccepted: 42,
	}
	require.NoError(t, SaveProfile(p, original))

	loaded, err := LoadProfile(p)
	require.NoError(t, err)
	assert.True(t, loaded.LoggedIn())
	assert.Equal(t, "alice", loaded.User.Username)
	assert.Equal(t, "Alice Walker", loaded.FullName)
	assert.Equal(t, 42, loaded.TermsLastAccepted)
	require.NotNil(t, loaded.User.Token)
	assert.Equal(t, "s3cret", loaded.User.Token.Sha1)
}

func TestLoadProfile_MissingFileMeansLoggedOut(t *testing.T) {
	p := paths.NewDirProvider(t.TempDir())
	require.NoError(t, paths.EnsureLayout(p))

	profile, err := LoadProfile(p)
	require.NoError(t, err)
	assert.False(t, profile.LoggedIn())
}

func TestLoadProfile_VersionMismatch(t *testing.T) {
	p := paths.NewDirProvider(t.TempDir())
	require.NoError(t, paths.EnsureLayout(p))

	data, err := json.Marshal(map[string]interface{}{"serial_version_uid": 99})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p.ProfilePath(), data, 0600))

	_, err = LoadProfile(p)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrProfile))

	var versionErr *UnsupportedProfileVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, int64(99), versionErr.Got)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.server.AddAccount("alice", "hunter2", "")

	user := f.session.Login("alice", "hunter2", "Alice Walker")
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, user.Token)
	assert.NotEmpty(t, user.Token.Sha1)

	// The display name hint was pushed server-side.
	assert.Equal(t, "Alice Walker", user.FullName)

	// The profile landed on disk.
	assert.True(t, f.session.LoggedIn())
	loaded, err := LoadProfile(f.paths)
	require.NoError(t, err)
	assert.True(t, loaded.LoggedIn())
	assert.Equal(t, user.Token.Sha1, loaded.User.Token.Sha1)
}

func TestLogin_ReplacesStaleDeviceToken(t *testing.T) {
	f := newFixture(t)
	f.server.AddAccount("alice", "hunter2", "")

	tokenName, err := TokenName(f.paths)
	require.NoError(t, err)
	f.server.IssueToken("alice", tokenName)
	f.server.IssueToken("alice", "other-device")

	user := f.session.Login("alice", "hunter2", "")
	require.NotNil(t, user)

	var mine int
	for _, tok := range f.server.Tokens("alice") {
		if tok.Name == tokenName {
			mine++
		}
	}
	assert.Equal(t, 1, mine)
	assert.Len(t, f.server.Tokens("alice"), 2)
}

func TestLogin_KeepsExistingFullName(t *testing.T) {
	f := newFixture(t)
	f.server.AddAccount("alice", "hunter2", "Existing Name")

	user := f.session.Login("alice", "hunter2", "Another Name")
	require.NotNil(t, user)
	assert.Equal(t, "Existing Name", user.FullName)
}

func TestLogin_FallsBackToUsername(t *testing.T) {
	f := newFixture(t)
	f.server.AddAccount("alice", "hunter2", "")

	user := f.session.Login("alice", "hunter2", "")
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.FullName)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.server.AddAccount("alice", "hunter2", "")

	user := f.session.Login("alice", "wrong", "")
	assert.Nil(t, user)
	assert.True(t, f.log.HasLevel("error"))
	assert.False(t, f.session.LoggedIn())
}

func TestLogout_RevokesTokenAndClearsState(t *testing.T) {
	f := newFixture(t)
	f.server.AddAccount("alice", "hunter2", "")
	seedKeys(t, f.paths)

	require.NotNil(t, f.session.Login("alice", "hunter2", ""))
	require.NotEmpty(t, f.server.Tokens("alice"))

	require.NoError(t, f.session.Logout())

	assert.Empty(t, f.server.Tokens("alice"))
	assert.False(t, f.session.LoggedIn())
	_, err := os.Stat(f.paths.ProfilePath())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(f.paths.PrivateKey())
	assert.True(t, os.IsNotExist(err))
}

func TestLogout_ClearsLocalStateWhenServerFails(t *testing.T) {
	f := newFixture(t)
	f.server.AddAccount("alice", "hunter2", "")
	seedKeys(t, f.paths)

	require.NotNil(t, f.session.Login("alice", "hunter2", ""))
	f.server.Fail("DELETE /users/alice/tokens", 500)

	require.NoError(t, f.session.Logout())

	assert.False(t, f.session.LoggedIn())
	_, err := os.Stat(f.paths.ProfilePath())
	assert.True(t, os.IsNotExist(err))
	assert.True(t, f.log.HasLevel("warn"))
	// The server-side token is still there; a later login replaces it.
	assert.NotEmpty(t, f.server.Tokens("alice"))
}

func TestLogout_NotLoggedIn(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Logout())
	assert.False(t, f.session.LoggedIn())
}

func TestSession_LoadReflectsDisk(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load())
	assert.False(t, f.session.LoggedIn())

	require.NoError(t, SaveProfile(f.paths, &Profile{
		User: &gogs.User{Username: "alice"},
	}))
	require.NoError(t, f.session.Load())
	assert.True(t, f.session.LoggedIn())
	assert.Equal(t, "alice", f.session.User().Username)
}
