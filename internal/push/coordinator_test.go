package push

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscantools/docsync/internal/config"
	"github.com/docscantools/docsync/internal/gitrepo"
	"github.com/docscantools/docsync/internal/gogs"
	"github.com/docscantools/docsync/internal/gogs/gogstest"
	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/paths"
	"github.com/docscantools/docsync/internal/project"
	"github.com/docscantools/docsync/internal/resolver"
	"github.com/docscantools/docsync/internal/session"
	"github.com/docscantools/docsync/internal/sshkeys"
)

type progressRecorder struct {
	steps []string
}

func (p *progressRecorder) Step(message string) {
	p.steps = append(p.steps, message)
}

type coordinatorFixture struct {
	coordinator *Coordinator
	session     *session.Session
	server      *gogstest.FakeServer
	paths       paths.Provider
	log         *logger.BufferLogger
	identity    project.Identity
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()

	p := paths.NewDirProvider(t.TempDir())
	require.NoError(t, paths.EnsureLayout(p))

	server := gogstest.New()
	t.Cleanup(server.Close)

	api := gogs.New(server.URL(), "docsync-test")
	log := logger.NewBufferLogger()
	api.SetLogger(log)

	keys := sshkeys.NewProvisioner(p)
	s := session.New(api, p, keys)
	s.SetLogger(log)

	r := resolver.New(api, 0)
	r.SetLogger(log)

	c := New(s, r, keys, p, config.Default())
	c.SetLogger(log)

	return &coordinatorFixture{
		coordinator: c,
		session:     s,
		server:      server,
		paths:       p,
		log:         log,
		identity:    project.NewIdentity("en", "ulb", "mat"),
	}
}

// logIn seeds a server account with a device token and marks the session
// as logged in, bypassing the interactive flow.
func (f *coordinatorFixture) logIn(t *testing.T) {
	t.Helper()
	account := f.server.AddAccount("alice", "hunter2", "Alice")
	token := f.server.IssueToken("alice", "docsync__test")
	f.session.Profile = &session.Profile{
		User: &gogs.User{ID: account.ID, Username: "alice", Token: token},
	}
}

// seedWork drops a file into the project working tree.
func (f *coordinatorFixture) seedWork(t *testing.T) {
	t.Helper()
	dir := f.identity.Dir(f.paths)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.txt"), []byte("In the beginning"), 0644))
}

func TestPush_RequiresSession(t *testing.T) {
	f := newCoordinatorFixture(t)
	progress := &progressRecorder{}

	out := f.coordinator.Push(f.identity, progress)

	assert.Equal(t, StatusAuthFailure, out.Status)
	assert.Empty(t, progress.steps)
	assert.Zero(t, f.server.CreateRepoCalls)
}

func TestPush_NoRemoteRepository(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.logIn(t)
	f.seedWork(t)
	f.server.Fail("POST /user/repos", 500)
	progress := &progressRecorder{}

	out := f.coordinator.Push(f.identity, progress)

	assert.Equal(t, StatusNoRemoteRepo, out.Status)
	assert.Equal(t, []string{StagePreparing, StageSearching}, progress.steps)

	// Local work was still committed before the resolution failed.
	repo, err := gitrepo.Open(f.identity.Dir(f.paths))
	require.NoError(t, err)
	assert.True(t, repo.IsClean())
}

func TestPush_MissingKeyFailsAuth(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.logIn(t)
	f.seedWork(t)
	f.server.AddRepo("alice", f.identity.Slug())
	progress := &progressRecorder{}

	out := f.coordinator.Push(f.identity, progress)

	assert.Equal(t, StatusAuthFailure, out.Status)
	assert.Equal(t, []string{StagePreparing, StageSearching, StageGettingRepo, StageAuth}, progress.steps)

	// The remote was already pointed at the server with an ssh:// URL that
	// carries an explicit port.
	repo, err := gitrepo.Open(f.identity.Dir(f.paths))
	require.NoError(t, err)
	assert.Contains(t, repo.Remotes(), "origin")

	gitConfig, err := os.ReadFile(filepath.Join(f.identity.Dir(f.paths), ".git", "config"))
	require.NoError(t, err)
	assert.Contains(t, string(gitConfig), "ssh://git@git.example.org:22/alice/"+f.identity.Slug()+".git")
}

func TestPush_NilProgressIsFine(t *testing.T) {
	f := newCoordinatorFixture(t)
	out := f.coordinator.Push(f.identity, nil)
	assert.Equal(t, StatusAuthFailure, out.Status)
}
