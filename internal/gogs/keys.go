package gogs

import "fmt"

// createKeyRequest is the body for POST /user/keys.
type createKeyRequest struct {
	Title string `json:"title"`
	Key   string `json:"key"`
}

// ListPublicKeys returns the SSH public keys registered for the
// authenticated user.
func (c *Client) ListPublicKeys(auth *User) ([]*PublicKey, error) {
	var keys []*PublicKey
	if err := c.do("GET", "/user/keys", auth, nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreatePublicKey registers a new SSH public key under title.
func (c *Client) CreatePublicKey(auth *User, title, key string) (*PublicKey, error) {
	created := new(PublicKey)
	req := createKeyRequest{Title: title, Key: key}
	if err := c.do("POST", "/user/keys", auth, req, created); err != nil {
		return nil, err
	}
	return created, nil
}

// DeletePublicKey removes a registered key by id.
func (c *Client) DeletePublicKey(auth *User, id int64) error {
	return c.do("DELETE", fmt.Sprintf("/user/keys/%d", id), auth, nil, nil)
}
