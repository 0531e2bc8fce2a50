// Package paths abstracts the on-disk layout used by docsync. Components
// take a Provider rather than computing directories themselves, which keeps
// the key store and project locations swappable in tests.
package paths

import (
	"os"
	"path/filepath"
)

// Provider exposes the handful of directories the sync core needs.
type Provider interface {
	// SSHKeysDir is the app-private directory holding the SSH key pair.
	SSHKeysDir() string
	// PrivateKey is the path to the SSH private key file.
	PrivateKey() string
	// PublicKey is the path to the SSH public key file.
	PublicKey() string
	// ProjectsDir is where project working trees live, one per slug.
	ProjectsDir() string
	// ProfilePath is the persisted session record.
	ProfilePath() string
	// DeviceIDPath is the persisted per-install device identifier.
	DeviceIDPath() string
}

// DirProvider lays everything out under a single data directory:
//
//	<root>/internal/ssh/id_rsa[.pub]
//	<root>/external/projects/<slug>/
//	<root>/profile.json
//	<root>/device_id
type DirProvider struct {
	Root string
}

// NewDirProvider creates a provider rooted at dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{Root: dir}
}

// DefaultRoot returns the default data directory, honoring XDG_DATA_HOME.
func DefaultRoot() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "docsync")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".docsync")
	}
	return filepath.Join(home, ".local", "share", "docsync")
}

func (p *DirProvider) SSHKeysDir() string {
	return filepath.Join(p.Root, "internal", "ssh")
}

func (p *DirProvider) PrivateKey() string {
	return filepath.Join(p.SSHKeysDir(), "id_rsa")
}

func (p *DirProvider) PublicKey() string {
	return filepath.Join(p.SSHKeysDir(), "id_rsa.pub")
}

func (p *DirProvider) ProjectsDir() string {
	return filepath.Join(p.Root, "external", "projects")
}

func (p *DirProvider) ProfilePath() string {
	return filepath.Join(p.Root, "profile.json")
}

func (p *DirProvider) DeviceIDPath() string {
	return filepath.Join(p.Root, "device_id")
}

// EnsureLayout creates the directories the provider points at.
// Key material lives under 0700; project trees are world-readable.
func EnsureLayout(p Provider) error {
	if err := os.MkdirAll(p.SSHKeysDir(), 0700); err != nil {
		return err
	}
	return os.MkdirAll(p.ProjectsDir(), 0755)
}
