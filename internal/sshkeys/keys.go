// Package sshkeys provisions the device's SSH identity: an RSA key pair in
// the app-private key directory, registration of the public key with the
// hosting service, and the git transport auth built from the private key.
package sshkeys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/paths"
)

// defaultKeyBits is the RSA key size for generated identities.
const defaultKeyBits = 4096

// Provisioner manages the SSH key pair under the provider's key directory.
type Provisioner struct {
	paths paths.Provider
	log   logger.Logger

	// keyBits is overridable in tests; 4096-bit generation is slow.
	keyBits int
}

// NewProvisioner creates a Provisioner using the given path provider.
func NewProvisioner(p paths.Provider) *Provisioner {
	return &Provisioner{
		paths:   p,
		log:     logger.NewEnvLogger("[sshkeys]"),
		keyBits: defaultKeyBits,
	}
}

// SetLogger replaces the provisioner's logger.
func (p *Provisioner) SetLogger(l logger.Logger) {
	p.log = l
}

// HasKeys reports whether the key pair exists. Both files must be present;
// a half-written pair counts as absent.
func (p *Provisioner) HasKeys() bool {
	if _, err := os.Stat(p.paths.PrivateKey()); err != nil {
		return false
	}
	if _, err := os.Stat(p.paths.PublicKey()); err != nil {
		return false
	}
	return true
}

// Generate creates a new RSA key pair when none exists, or unconditionally
// when force is set, overwriting previous files. Failures are logged and
// swallowed; callers must re-check HasKeys rather than trust the return.
func (p *Provisioner) Generate(force bool) {
	if p.HasKeys() && !force {
		return
	}

	if err := os.MkdirAll(p.paths.SSHKeysDir(), 0700); err != nil {
		p.log.Error("creating key directory: %v", err)
		return
	}

	key, err := rsa.GenerateKey(rand.Reader, p.keyBits)
	if err != nil {
		p.log.Error("generating RSA key: %v", err)
		return
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pub, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		p.log.Error("encoding public key: %v", err)
		return
	}
	publicAuthorized := ssh.MarshalAuthorizedKey(pub)

	// Both files exist together or neither does. Clean up on partial
	// failure so HasKeys stays truthful.
	if err := os.WriteFile(p.paths.PrivateKey(), privatePEM, 0600); err != nil {
		p.log.Error("writing private key: %v", err)
		p.removePair()
		return
	}
	if err := os.WriteFile(p.paths.PublicKey(), publicAuthorized, 0644); err != nil {
		p.log.Error("writing public key: %v", err)
		p.removePair()
		return
	}
}

// removePair deletes whatever halves of the key pair exist.
func (p *Provisioner) removePair() {
	_ = os.Remove(p.paths.PrivateKey())
	_ = os.Remove(p.paths.PublicKey())
}

// RemoveKeys deletes the key directory. Used on logout.
func (p *Provisioner) RemoveKeys() error {
	return os.RemoveAll(p.paths.SSHKeysDir())
}
