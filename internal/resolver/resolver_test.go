package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscantools/docsync/internal/gogs"
	"github.com/docscantools/docsync/internal/gogs/gogstest"
	"github.com/docscantools/docsync/internal/project"
	"github.com/docscantools/docsync/internal/resolver"
)

func fixture(t *testing.T) (*resolver.Resolver, *gogstest.FakeServer, *gogs.User) {
	t.Helper()
	srv := gogstest.New()
	t.Cleanup(srv.Close)
	account := srv.AddAccount("alice", "s3cret", "")

	r := resolver.New(gogs.New(srv.URL(), "docsync-test"), 0)
	user := &gogs.User{ID: account.ID, Username: "alice", Password: "s3cret"}
	return r, srv, user
}

func TestEnsureExists_CreatesOnce(t *testing.T) {
	r, srv, user := fixture(t)
	id := project.NewIdentity("en", "ulb_mat", "text")

	assert.True(t, r.EnsureExists(id, user))
	assert.True(t, r.EnsureExists(id, user), "conflict on second call counts as success")

	assert.Len(t, srv.Repos(), 1)
	assert.Equal(t, 2, srv.CreateRepoCalls)
}

func TestEnsureExists_ServerErrorReturnsFalse(t *testing.T) {
	r, srv, user := fixture(t)
	srv.Fail("POST /user/repos", 500)

	assert.False(t, r.EnsureExists(project.NewIdentity("en", "mat", "text"), user))
}

func TestFind_ExactMatchAmongPrefixCollisions(t *testing.T) {
	r, srv, user := fixture(t)
	srv.AddRepo("alice", "en_ulb_mat_text")
	srv.AddRepo("alice", "custom_en_ulb_mat_text_l3")

	found := r.Find(project.NewIdentity("en", "ulb_mat", "text"), user)
	require.NotNil(t, found)
	assert.Equal(t, "en_ulb_mat_text", found.Name)
	assert.Equal(t, "alice", found.Owner.Username)
}

func TestFind_ReturnsDetailWithSSHURL(t *testing.T) {
	r, srv, user := fixture(t)
	srv.AddRepo("alice", "en_ulb_mat_text")

	found := r.Find(project.NewIdentity("en", "ulb_mat", "text"), user)
	require.NotNil(t, found)
	assert.Equal(t, "git@git.example.org:alice/en_ulb_mat_text.git", found.SSHURL)
}

func TestFind_NoMatch(t *testing.T) {
	r, srv, user := fixture(t)
	srv.AddRepo("alice", "something_else")

	assert.Nil(t, r.Find(project.NewIdentity("en", "ulb_mat", "text"), user))
}

func TestFind_WrongOwnerFilteredOut(t *testing.T) {
	r, srv, user := fixture(t)
	srv.AddAccount("bob", "pw", "")
	srv.AddRepo("bob", "en_ulb_mat_text")

	// bob's repo matches by name but not by owner; uid filtering plus
	// the client-side owner check keep it out.
	assert.Nil(t, r.Find(project.NewIdentity("en", "ulb_mat", "text"), user))
}

func TestResolve_CreatesThenFinds(t *testing.T) {
	r, srv, user := fixture(t)
	id := project.NewIdentity("en", "ulb_mat", "text")

	resolved := r.Resolve(id, user)
	require.NotNil(t, resolved)
	assert.Equal(t, "en_ulb_mat_text", resolved.Name)
	assert.NotEmpty(t, resolved.SSHURL)
	assert.Len(t, srv.Repos(), 1)

	// Resolving again re-uses the existing repository.
	again := r.Resolve(id, user)
	require.NotNil(t, again)
	assert.Len(t, srv.Repos(), 1)
}
