package session

import (
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/docscantools/docsync/internal/paths"
)

// tokenBaseName prefixes every access token this tool creates.
const tokenBaseName = "docsync"

// DeviceID returns the stable per-install identifier, generating and
// persisting one on first use.
func DeviceID(p paths.Provider) (string, error) {
	data, err := os.ReadFile(p.DeviceIDPath())
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.WriteFile(p.DeviceIDPath(), []byte(id+"\n"), 0600); err != nil {
		return "", err
	}
	return id, nil
}

// Nickname is a human-legible device name, taken from the hostname.
func Nickname() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "device"
	}
	return strings.ToLower(host)
}

// TokenName derives the deterministic, device-scoped token name. The name
// embeds the platform, nickname, and device id so at most one live token
// per device exists server-side; whitespace is normalized to keep the name
// a single opaque word.
func TokenName(p paths.Provider) (string, error) {
	id, err := DeviceID(p)
	if err != nil {
		return "", err
	}
	name := tokenBaseName + "__" + runtime.GOOS + "_" + Nickname() + "__" + id
	return strings.ReplaceAll(name, " ", "_"), nil
}

// KeyTitle derives the matching SSH public key title for this device.
func KeyTitle(p paths.Provider) (string, error) {
	id, err := DeviceID(p)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(tokenBaseName+" "+Nickname()+" "+id, " ", "_"), nil
}
