package sshkeys

import (
	"encoding/pem"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/paths"
)

// testKeyBits keeps RSA generation fast in tests.
const testKeyBits = 1024

func newTestProvisioner(t *testing.T) (*Provisioner, paths.Provider) {
	t.Helper()
	p := paths.NewDirProvider(t.TempDir())
	prov := NewProvisioner(p)
	prov.keyBits = testKeyBits
	return prov, p
}

func TestHasKeys_RequiresBothFiles(t *testing.T) {
	prov, p := newTestProvisioner(t)
	assert.False(t, prov.HasKeys())

	require.NoError(t, os.MkdirAll(p.SSHKeysDir(), 0700))
	require.NoError(t, os.WriteFile(p.PrivateKey(), []byte("key"), 0600))
	assert.False(t, prov.HasKeys(), "private key alone is not a pair")

	require.NoError(t, os.WriteFile(p.PublicKey(), []byte("pub"), 0644))
	assert.True(t, prov.HasKeys())
}

func TestGenerate_CreatesValidPair(t *testing.T) {
	prov, p := newTestProvisioner(t)

	prov.Generate(false)
	require.True(t, prov.HasKeys())

	private, err := os.ReadFile(p.PrivateKey())
	require.NoError(t, err)
	block, _ := pem.Decode(private)
	require.NotNil(t, block)
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)

	info, err := os.Stat(p.PrivateKey())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	public, err := os.ReadFile(p.PublicKey())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(public), "ssh-rsa "))
}

func TestGenerate_NoOpWhenKeysExist(t *testing.T) {
	prov, p := newTestProvisioner(t)
	prov.Generate(false)
	before, err := os.ReadFile(p.PublicKey())
	require.NoError(t, err)

	prov.Generate(false)

	after, err := os.ReadFile(p.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGenerate_ForceRotates(t *testing.T) {
	prov, p := newTestProvisioner(t)
	prov.Generate(false)
	before, err := os.ReadFile(p.PublicKey())
	require.NoError(t, err)

	prov.Generate(true)

	after, err := os.ReadFile(p.PublicKey())
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	assert.True(t, prov.HasKeys())
}

func TestGenerate_FailureIsSwallowed(t *testing.T) {
	p := paths.NewDirProvider(t.TempDir())
	prov := NewProvisioner(p)
	prov.keyBits = testKeyBits
	buf := logger.NewBufferLogger()
	prov.SetLogger(buf)

	// A file where the key directory belongs makes MkdirAll fail.
	require.NoError(t, os.MkdirAll(p.Root+"/internal", 0755))
	require.NoError(t, os.WriteFile(p.SSHKeysDir(), []byte{}, 0644))

	prov.Generate(false) // must not panic

	assert.False(t, prov.HasKeys())
	assert.True(t, buf.HasLevel("error"))
}

func TestRemoveKeys(t *testing.T) {
	prov, p := newTestProvisioner(t)
	prov.Generate(false)
	require.True(t, prov.HasKeys())

	require.NoError(t, prov.RemoveKeys())

	assert.False(t, prov.HasKeys())
	_, err := os.Stat(p.SSHKeysDir())
	assert.True(t, os.IsNotExist(err))
}

func TestAuthMethod(t *testing.T) {
	prov, _ := newTestProvisioner(t)
	prov.Generate(false)

	auth, err := prov.AuthMethod()
	require.NoError(t, err)
	assert.Equal(t, "git", auth.User)
	assert.NotNil(t, auth.HostKeyCallback)
}

func TestAuthMethod_MissingKey(t *testing.T) {
	prov, _ := newTestProvisioner(t)

	_, err := prov.AuthMethod()
	assert.Error(t, err)
}
