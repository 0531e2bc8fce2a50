package sshkeys

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
)

// AuthMethod builds the git transport credential from the stored private
// key. Strict host-key checking is disabled: the hosting service is
// operator-controlled, and scanner devices have no curated known_hosts.
func (p *Provisioner) AuthMethod() (*gitssh.PublicKeys, error) {
	auth, err := gitssh.NewPublicKeysFromFile("git", p.paths.PrivateKey(), "")
	if err != nil {
		return nil, fmt.Errorf("loading private key: %w", err)
	}
	auth.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // operator-controlled server, see above
	return auth, nil
}

// ResolvePort picks the SSH port for host: an explicitly configured
// non-default port wins, then a Port entry in ~/.ssh/config, then 22.
func ResolvePort(host string, configured int) int {
	if configured > 0 && configured != 22 {
		return configured
	}
	if entry := ssh_config.Get(host, "Port"); entry != "" && entry != "22" {
		if port, err := strconv.Atoi(entry); err == nil {
			return port
		}
	}
	if configured > 0 {
		return configured
	}
	return 22
}

// Host extracts the hostname from an SSH clone URL in either ssh:// or
// scp style.
func Host(sshURL string) string {
	if strings.HasPrefix(sshURL, "ssh://") {
		if parsed, err := url.Parse(sshURL); err == nil {
			return parsed.Hostname()
		}
		return ""
	}
	at := strings.Index(sshURL, "@")
	colon := strings.Index(sshURL, ":")
	if at < 0 || colon < at {
		return ""
	}
	return sshURL[at+1 : colon]
}

// RewriteURL normalizes a Gogs SSH clone URL to ssh:// form with an
// explicit port. Gogs reports scp-style URLs (git@host:owner/repo.git)
// which cannot carry a port.
func RewriteURL(sshURL string, port int) (string, error) {
	if strings.HasPrefix(sshURL, "ssh://") {
		parsed, err := url.Parse(sshURL)
		if err != nil {
			return "", fmt.Errorf("invalid ssh url %q: %w", sshURL, err)
		}
		host := parsed.Hostname()
		user := "git"
		if parsed.User != nil && parsed.User.Username() != "" {
			user = parsed.User.Username()
		}
		return fmt.Sprintf("ssh://%s@%s:%d%s", user, host, port, parsed.Path), nil
	}

	// scp-style: user@host:path
	at := strings.Index(sshURL, "@")
	colon := strings.Index(sshURL, ":")
	if at < 0 || colon < at {
		return "", fmt.Errorf("unrecognized ssh url %q", sshURL)
	}
	user := sshURL[:at]
	host := sshURL[at+1 : colon]
	path := strings.TrimPrefix(sshURL[colon+1:], "/")
	return fmt.Sprintf("ssh://%s@%s:%d/%s", user, host, port, path), nil
}
