package gogs

import (
	"fmt"
	"net/url"
)

// createRepoRequest is the body for POST /user/repos.
type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

// searchResponse wraps GET /repos/search results.
type searchResponse struct {
	OK   bool          `json:"ok"`
	Data []*Repository `json:"data"`
}

// CreateRepo creates a repository named name owned by the authenticated
// user. The server answers 409 when a repository of that name exists; the
// caller decides whether that counts as success.
func (c *Client) CreateRepo(auth *User, name string) (*Repository, error) {
	repo := new(Repository)
	req := createRepoRequest{Name: name}
	if err := c.do("POST", "/user/repos", auth, req, repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// SearchRepos queries the server's repository search. Matching is
// substring-based server-side, so results may include repositories whose
// names merely contain q.
func (c *Client) SearchRepos(q string, uid int64, limit int) ([]*Repository, error) {
	path := fmt.Sprintf("/repos/search?q=%s&uid=%d&limit=%d", url.QueryEscape(q), uid, limit)
	var result searchResponse
	if err := c.do("GET", path, nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetRepo fetches full repository detail, including clone URLs that the
// search endpoint leaves blank.
func (c *Client) GetRepo(auth *User, owner, name string) (*Repository, error) {
	repo := new(Repository)
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))
	if err := c.do("GET", path, auth, nil, repo); err != nil {
		return nil, err
	}
	return repo, nil
}
