package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/docscantools/docsync/internal/errors"
	"github.com/docscantools/docsync/internal/gogs"
	"github.com/docscantools/docsync/internal/paths"
)

// profileVersion is bumped whenever the on-disk schema changes in an
// incompatible way. A stored profile with a different version is rejected
// rather than silently reinterpreted.
const profileVersion int64 = 0

// UnsupportedProfileVersionError reports a stored profile written by an
// incompatible version of the tool.
type UnsupportedProfileVersionError struct {
	Got  int64
	Want int64
}

func (e *UnsupportedProfileVersionError) Error() string {
	return fmt.Sprintf("unsupported profile version %d (want %d)", e.Got, e.Want)
}

// Profile is the locally persisted account state. A nil User means the
// device is not logged in.
type Profile struct {
	FullName          string
	User              *gogs.User
	TermsLastAccepted int
}

// LoggedIn reports whether a server account is associated with this device.
func (p *Profile) LoggedIn() bool {
	return p != nil && p.User != nil
}

// profileRecord is the wire form of Profile. The token is carried in a
// dedicated field because gogs.User deliberately excludes secrets from its
// JSON representation.
type profileRecord struct {
	SerialVersionUID  int64       `json:"serial_version_uid"`
	GogsUser          *gogs.User  `json:"gogs_user,omitempty"`
	GogsToken         *gogs.Token `json:"gogs_token,omitempty"`
	FullName          string      `json:"full_name,omitempty"`
	TermsLastAccepted int         `json:"terms_last_accepted"`
}

// LoadProfile reads the persisted profile. A missing file yields an empty,
// logged-out profile. A version mismatch is a hard failure so callers never
// operate on state they cannot interpret.
func LoadProfile(p paths.Provider) (*Profile, error) {
	data, err := os.ReadFile(p.ProfilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrProfile, "failed to read profile", "")
	}

	var rec profileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrProfile, "failed to parse profile",
			"Delete the profile and log in again")
	}
	if rec.SerialVersionUID != profileVersion {
		return nil, errors.WrapWithCode(
			&UnsupportedProfileVersionError{Got: rec.SerialVersionUID, Want: profileVersion},
			errors.ErrProfile,
			"stored profile is not compatible with this version",
			"Log out and log in again to recreate it",
		)
	}

	profile := &Profile{
		FullName:          rec.FullName,
		User:              rec.GogsUser,
		TermsLastAccepted: rec.TermsLastAccepted,
	}
	if profile.User != nil && rec.GogsToken != nil {
		profile.User.Token = rec.GogsToken
	}
	return profile, nil
}

// SaveProfile writes the profile atomically via a rename.
func SaveProfile(p paths.Provider, profile *Profile) error {
	rec := profileRecord{
		SerialVersionUID:  profileVersion,
		GogsUser:          profile.User,
		FullName:          profile.FullName,
		TermsLastAccepted: profile.TermsLastAccepted,
	}
	if profile.User != nil {
		rec.GogsToken = profile.User.Token
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrProfile, "failed to encode profile", "")
	}

	tmp := p.ProfilePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.WrapWithCode(err, errors.ErrProfile, "failed to write profile", "")
	}
	if err := os.Rename(tmp, p.ProfilePath()); err != nil {
		os.Remove(tmp)
		return errors.WrapWithCode(err, errors.ErrProfile, "failed to write profile", "")
	}
	return nil
}

// DeleteProfile removes the persisted profile. Missing files are fine.
func DeleteProfile(p paths.Provider) error {
	if err := os.Remove(p.ProfilePath()); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrProfile, "failed to delete profile", "")
	}
	return nil
}
