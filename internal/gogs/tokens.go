package gogs

import (
	"fmt"
	"net/url"
)

// createTokenRequest is the body for POST /users/{username}/tokens.
type createTokenRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

// ListTokens returns the access tokens for username. The token endpoints
// require basic authentication; a token cannot manage tokens.
func (c *Client) ListTokens(auth *User, username string) ([]*Token, error) {
	var tokens []*Token
	path := fmt.Sprintf("/users/%s/tokens", url.PathEscape(username))
	if err := c.do("GET", path, auth, nil, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// CreateToken creates a named access token with the given scopes. The
// returned token carries the secret; the server never reveals it again.
func (c *Client) CreateToken(auth *User, username, name string, scopes []string) (*Token, error) {
	token := new(Token)
	path := fmt.Sprintf("/users/%s/tokens", url.PathEscape(username))
	req := createTokenRequest{Name: name, Scopes: scopes}
	if err := c.do("POST", path, auth, req, token); err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteToken removes the access token with the given id.
func (c *Client) DeleteToken(auth *User, username string, id int64) error {
	path := fmt.Sprintf("/users/%s/tokens/%d", url.PathEscape(username), id)
	return c.do("DELETE", path, auth, nil, nil)
}
