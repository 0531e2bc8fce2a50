// Package session manages the device's association with a Gogs account:
// login, logout, and the locally persisted profile that survives restarts.
package session

import (
	"github.com/docscantools/docsync/internal/gogs"
	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/paths"
	"github.com/docscantools/docsync/internal/sshkeys"
)

// tokenScopes are the permissions requested for every device token.
var tokenScopes = []string{"write:repository", "write:user"}

// Session ties the persisted profile to the API client and the SSH key
// material owned by this device.
type Session struct {
	api   *gogs.Client
	paths paths.Provider
	keys  *sshkeys.Provisioner
	log   logger.Logger

	// Profile is the current in-memory state. Load populates it and
	// Login/Logout keep it in sync with disk.
	Profile *Profile
}

// New creates a session manager. Call Load before inspecting Profile.
func New(api *gogs.Client, p paths.Provider, keys *sshkeys.Provisioner) *Session {
	return &Session{
		api:     api,
		paths:   p,
		keys:    keys,
		log:     logger.Default(),
		Profile: &Profile{},
	}
}

// SetLogger replaces the logger.
func (s *Session) SetLogger(l logger.Logger) {
	s.log = l
	s.keys.SetLogger(l)
}

// Load reads the persisted profile from disk.
func (s *Session) Load() error {
	profile, err := LoadProfile(s.paths)
	if err != nil {
		return err
	}
	s.Profile = profile
	return nil
}

// Save writes the current profile to disk.
func (s *Session) Save() error {
	return SaveProfile(s.paths, s.Profile)
}

// LoggedIn reports whether a server account is associated with this device.
func (s *Session) LoggedIn() bool {
	return s.Profile.LoggedIn()
}

// User returns the logged-in account, or nil.
func (s *Session) User() *gogs.User {
	if s.Profile == nil {
		return nil
	}
	return s.Profile.User
}

// Login authenticates with basic credentials, provisions a device-scoped
// access token, and persists the resulting account state. The password is
// used only for this exchange; everything afterwards runs on the token.
// Returns nil on any failure, with the cause logged.
func (s *Session) Login(username, password, fullName string) *gogs.User {
	authUser := &gogs.User{Username: username, Password: password}

	user, err := s.api.GetUser(authUser, username)
	if err != nil {
		s.log.Error("login: failed to fetch user %q: %v", username, err)
		return nil
	}

	tokenName, err := TokenName(s.paths)
	if err != nil {
		s.log.Error("login: failed to derive token name: %v", err)
		return nil
	}

	// At most one live token per device. A leftover token with our name
	// cannot be read back (the server only returns the secret on creation),
	// so replace it.
	tokens, err := s.api.ListTokens(authUser, username)
	if err != nil {
		s.log.Error("login: failed to list tokens: %v", err)
		return nil
	}
	for _, t := range tokens {
		if t.Name == tokenName {
			if err := s.api.DeleteToken(authUser, username, t.ID); err != nil {
				s.log.Warn("login: failed to delete stale token %q: %v", tokenName, err)
			}
		}
	}

	token, err := s.api.CreateToken(authUser, username, tokenName, tokenScopes)
	if err != nil {
		s.log.Error("login: failed to create token: %v", err)
		return nil
	}
	user.Token = token

	// Backfill the display name server-side only when the account has none.
	// An existing server-side name always wins over the hint.
	if user.FullName == "" {
		if fullName != "" {
			user.FullName = fullName
			if _, err := s.api.EditUser(authUser, user); err != nil {
				s.log.Warn("login: failed to update full name: %v", err)
			}
		} else {
			user.FullName = user.Username
		}
	}

	s.Profile.User = user
	s.Profile.FullName = user.FullName
	if err := s.Save(); err != nil {
		s.log.Error("login: failed to persist profile: %v", err)
		return nil
	}

	s.log.Info("logged in as %s", user.Username)
	return user
}

// Logout revokes the device token on the server on a best-effort basis and
// always clears local state, so a device can be detached even when the
// server is unreachable.
func (s *Session) Logout() error {
	if user := s.Profile.User; user != nil && user.Token != nil {
		// The stored token secret doubles as a basic-auth password for
		// this one revocation call.
		authUser := &gogs.User{Username: user.Username, Password: user.Token.Sha1}
		tokens, err := s.api.ListTokens(authUser, user.Username)
		if err != nil {
			s.log.Warn("logout: failed to list tokens: %v", err)
		}
		for _, t := range tokens {
			if t.Name == user.Token.Name {
				if err := s.api.DeleteToken(authUser, user.Username, t.ID); err != nil {
					s.log.Warn("logout: failed to delete token %q: %v", t.Name, err)
				}
			}
		}
	}

	s.Profile = &Profile{}
	if err := DeleteProfile(s.paths); err != nil {
		return err
	}
	if err := s.keys.RemoveKeys(); err != nil {
		s.log.Warn("logout: failed to remove ssh keys: %v", err)
	}
	return nil
}
