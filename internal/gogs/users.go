package gogs

import (
	"fmt"
	"net/url"
)

// editUserRequest is the body for PUT /users/{username}.
type editUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// GetUser fetches the account for username. Authenticating as that user
// also serves as a credential check during login.
func (c *Client) GetUser(auth *User, username string) (*User, error) {
	user := new(User)
	path := fmt.Sprintf("/users/%s", url.PathEscape(username))
	if err := c.do("GET", path, auth, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EditUser updates mutable profile fields of u (currently the display
// name) and returns the updated account.
func (c *Client) EditUser(auth *User, u *User) (*User, error) {
	updated := new(User)
	path := fmt.Sprintf("/users/%s", url.PathEscape(u.Username))
	req := editUserRequest{FullName: u.FullName, Email: u.Email}
	if err := c.do("PUT", path, auth, req, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
