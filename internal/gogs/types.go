package gogs

import "encoding/base64"

// User is a Gogs account. Password and Token are client-side credentials
// and never serialized into request bodies.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`

	Password string `json:"-"`
	Token    *Token `json:"-"`
}

// Token is a Gogs access token. The secret (sha1) is only returned by the
// server on creation.
type Token struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Sha1 string `json:"sha1"`
}

// Repository is a remote repository as reported by the API. SSHURL is only
// populated by the per-repo detail endpoint, not by search.
type Repository struct {
	ID            int64  `json:"id"`
	Owner         *User  `json:"owner"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	HTMLURL       string `json:"html_url"`
	CloneURL      string `json:"clone_url"`
	SSHURL        string `json:"ssh_url"`
	DefaultBranch string `json:"default_branch"`
}

// PublicKey is a registered SSH public key.
type PublicKey struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Key   string `json:"key"`
}

func basicCredentials(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
