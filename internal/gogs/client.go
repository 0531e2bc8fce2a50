// Package gogs is a typed client for the subset of the Gogs REST API that
// docsync uses: repositories, public keys, access tokens, and users. Every
// endpoint has an explicit request/response schema; nothing is parsed
// dynamically.
package gogs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docscantools/docsync/internal/logger"
)

// Client talks to one Gogs instance. It holds no session state beyond the
// base URL; credentials are passed per call.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       logger.Logger
}

// New creates a client for the Gogs API at baseURL (e.g.
// https://git.example.org/api/v1). Trailing slashes are stripped.
func New(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logger.NewEnvLogger("[gogs]"),
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l logger.Logger) {
	c.log = l
}

// SetHTTPClient replaces the underlying HTTP client. Used in tests and for
// callers needing custom transport settings.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError is returned for any response outside the expected status
// codes. It keeps the raw body so callers can log or inspect it.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gogs api responded with %d: %s", e.Code, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	se, ok := err.(*StatusError)
	return ok && se.Code == code
}

// do performs a request against the API. auth may be nil for anonymous
// calls. body is JSON-encoded when non-nil. On 2xx the response body is
// decoded into out (when out is non-nil); otherwise a StatusError is
// returned.
func (c *Client) do(method, path string, auth *User, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if header := authHeader(auth); header != "" {
		req.Header.Set("Authorization", header)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

// authHeader picks the authorization scheme from whichever credential is
// present: a token when set, HTTP basic otherwise.
func authHeader(u *User) string {
	if u == nil {
		return ""
	}
	if u.Token != nil && u.Token.Sha1 != "" {
		return "token " + u.Token.Sha1
	}
	if u.Username != "" {
		return "Basic " + basicCredentials(u.Username, u.Password)
	}
	return ""
}
