package sshkeys

import (
	"os"
	"strings"

	"github.com/docscantools/docsync/internal/gogs"
)

// Register uploads the device's public key to the hosting service under
// keyName, first deleting any existing key with that exact title. Titles
// are deterministic per device, so a stale entry left behind by key
// regeneration is cleaned up rather than accumulating. Returns false,
// without throwing, on any filesystem or API failure.
func (p *Provisioner) Register(api *gogs.Client, user *gogs.User, keyName string) bool {
	data, err := os.ReadFile(p.paths.PublicKey())
	if err != nil {
		p.log.Error("failed to read the public key: %v", err)
		return false
	}
	keyMaterial := strings.TrimSpace(string(data))

	keys, err := api.ListPublicKeys(user)
	if err != nil {
		p.log.Error("listing public keys: %v", err)
		return false
	}
	for _, k := range keys {
		if k.Title == keyName {
			if err := api.DeletePublicKey(user, k.ID); err != nil {
				p.log.Warn("deleting stale public key %q: %v", keyName, err)
			}
			break
		}
	}

	if _, err := api.CreatePublicKey(user, keyName, keyMaterial); err != nil {
		p.log.Error("failed to register the public key: %v", err)
		return false
	}
	return true
}
