package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirProvider_Layout(t *testing.T) {
	p := NewDirProvider("/data")

	assert.Equal(t, filepath.Join("/data", "internal", "ssh"), p.SSHKeysDir())
	assert.Equal(t, filepath.Join("/data", "internal", "ssh", "id_rsa"), p.PrivateKey())
	assert.Equal(t, filepath.Join("/data", "internal", "ssh", "id_rsa.pub"), p.PublicKey())
	assert.Equal(t, filepath.Join("/data", "external", "projects"), p.ProjectsDir())
	assert.Equal(t, filepath.Join("/data", "profile.json"), p.ProfilePath())
	assert.Equal(t, filepath.Join("/data", "device_id"), p.DeviceIDPath())
}

func TestEnsureLayout(t *testing.T) {
	root := t.TempDir()
	p := NewDirProvider(root)

	require.NoError(t, EnsureLayout(p))

	info, err := os.Stat(p.SSHKeysDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	info, err = os.Stat(p.ProjectsDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultRoot_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	assert.Equal(t, filepath.Join("/xdg/data", "docsync"), DefaultRoot())
}
