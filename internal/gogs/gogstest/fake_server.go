// Package gogstest provides an in-memory fake Gogs server for tests.
// It implements the API subset the client uses: users, tokens, public
// keys, and repositories, with the same status codes a real server
// answers with.
package gogstest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/docscantools/docsync/internal/gogs"
)

// Account is a fake server-side user account.
type Account struct {
	ID       int64
	Username string
	Password string
	FullName string
	Email    string
}

// FakeServer is an httptest-backed Gogs instance.
type FakeServer struct {
	mu     sync.Mutex
	server *httptest.Server

	accounts map[string]*Account
	tokens   map[string][]*gogs.Token  // username -> tokens
	secrets  map[string]string         // token sha1 -> username
	keys     map[string][]*gogs.PublicKey
	repos    []*gogs.Repository

	nextID int64

	// Failure injection: when a request matches method+path prefix,
	// the server answers with the given status instead.
	failures map[string]int

	// CreateRepoCalls counts POST /user/repos requests, including ones
	// answered with 409.
	CreateRepoCalls int
}

// New starts a fake server. Close it with Close.
func New() *FakeServer {
	f := &FakeServer{
		accounts: make(map[string]*Account),
		tokens:   make(map[string][]*gogs.Token),
		secrets:  make(map[string]string),
		keys:     make(map[string][]*gogs.PublicKey),
		failures: make(map[string]int),
		nextID:   1,
	}

	r := chi.NewRouter()
	r.Get("/users/{username}", f.handleGetUser)
	r.Put("/users/{username}", f.handleEditUser)
	r.Get("/users/{username}/tokens", f.handleListTokens)
	r.Post("/users/{username}/tokens", f.handleCreateToken)
	r.Delete("/users/{username}/tokens/{id}", f.handleDeleteToken)
	r.Get("/user/keys", f.handleListKeys)
	r.Post("/user/keys", f.handleCreateKey)
	r.Delete("/user/keys/{id}", f.handleDeleteKey)
	r.Post("/user/repos", f.handleCreateRepo)
	r.Get("/repos/search", f.handleSearchRepos)
	r.Get("/repos/{owner}/{name}", f.handleGetRepo)

	f.server = httptest.NewServer(r)
	return f
}

// URL returns the fake server's base URL.
func (f *FakeServer) URL() string {
	return f.server.URL
}

// Close shuts the server down.
func (f *FakeServer) Close() {
	f.server.Close()
}

// AddAccount registers an account and returns it.
func (f *FakeServer) AddAccount(username, password, fullName string) *Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &Account{
		ID:       f.nextID,
		Username: username,
		Password: password,
		FullName: fullName,
	}
	f.nextID++
	f.accounts[username] = a
	return a
}

// AddRepo seeds a repository owned by username.
func (f *FakeServer) AddRepo(username, name string) *gogs.Repository {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addRepoLocked(username, name)
}

func (f *FakeServer) addRepoLocked(username, name string) *gogs.Repository {
	a := f.accounts[username]
	repo := &gogs.Repository{
		ID:            f.nextID,
		Owner:         &gogs.User{ID: a.ID, Username: a.Username},
		Name:          name,
		FullName:      username + "/" + name,
		SSHURL:        fmt.Sprintf("git@git.example.org:%s/%s.git", username, name),
		CloneURL:      fmt.Sprintf("https://git.example.org/%s/%s.git", username, name),
		DefaultBranch: "master",
	}
	f.nextID++
	f.repos = append(f.repos, repo)
	return repo
}

// Repos returns a snapshot of the stored repositories.
func (f *FakeServer) Repos() []*gogs.Repository {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*gogs.Repository, len(f.repos))
	copy(out, f.repos)
	return out
}

// Keys returns a snapshot of username's registered public keys.
func (f *FakeServer) Keys(username string) []*gogs.PublicKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*gogs.PublicKey, len(f.keys[username]))
	copy(out, f.keys[username])
	return out
}

// Tokens returns a snapshot of username's access tokens.
func (f *FakeServer) Tokens(username string) []*gogs.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*gogs.Token, len(f.tokens[username]))
	copy(out, f.tokens[username])
	return out
}

// IssueToken creates a token server-side. Useful for seeding logged-in
// state without going through the login flow.
func (f *FakeServer) IssueToken(username, name string) *gogs.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueTokenLocked(username, name)
}

func (f *FakeServer) issueTokenLocked(username, name string) *gogs.Token {
	t := &gogs.Token{
		ID:   f.nextID,
		Name: name,
		Sha1: fmt.Sprintf("secret-%d", f.nextID),
	}
	f.nextID++
	f.tokens[username] = append(f.tokens[username], t)
	f.secrets[t.Sha1] = username
	return t
}

// Fail makes requests matching "METHOD /path/prefix" answer with status.
func (f *FakeServer) Fail(methodAndPrefix string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[methodAndPrefix] = status
}

// injected checks failure injection for the request.
func (f *FakeServer) injected(r *http.Request) (int, bool) {
	for key, status := range f.failures {
		parts := strings.SplitN(key, " ", 2)
		if len(parts) == 2 && r.Method == parts[0] && strings.HasPrefix(r.URL.Path, parts[1]) {
			return status, true
		}
	}
	return 0, false
}

// authenticate resolves the request's credentials to an account.
func (f *FakeServer) authenticate(r *http.Request) *Account {
	header := r.Header.Get("Authorization")
	switch {
	case strings.HasPrefix(header, "token "):
		sha := strings.TrimPrefix(header, "token ")
		if username, ok := f.secrets[sha]; ok {
			return f.accounts[username]
		}
	case strings.HasPrefix(header, "Basic "):
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
		if err != nil {
			return nil
		}
		creds := strings.SplitN(string(raw), ":", 2)
		if len(creds) != 2 {
			return nil
		}
		if a, ok := f.accounts[creds[0]]; ok {
			if a.Password == creds[1] {
				return a
			}
			// A token secret works as a basic-auth password too.
			if username, ok := f.secrets[creds[1]]; ok && username == creds[0] {
				return a
			}
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *FakeServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	if f.authenticate(r) == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	a, ok := f.accounts[chi.URLParam(r, "username")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, &gogs.User{
		ID: a.ID, Username: a.Username, FullName: a.FullName, Email: a.Email,
	})
}

func (f *FakeServer) handleEditUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	a, ok := f.accounts[chi.URLParam(r, "username")]
	if auth == nil || !ok || auth != a {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	var body struct {
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	a.FullName = body.FullName
	writeJSON(w, http.StatusOK, &gogs.User{
		ID: a.ID, Username: a.Username, FullName: a.FullName, Email: a.Email,
	})
}

func (f *FakeServer) handleListTokens(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	username := chi.URLParam(r, "username")
	if auth == nil || auth.Username != username {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	// Secrets are never listed back.
	listed := make([]*gogs.Token, 0, len(f.tokens[username]))
	for _, t := range f.tokens[username] {
		listed = append(listed, &gogs.Token{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, listed)
}

func (f *FakeServer) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	username := chi.URLParam(r, "username")
	if auth == nil || auth.Username != username {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, f.issueTokenLocked(username, body.Name))
}

func (f *FakeServer) handleDeleteToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	username := chi.URLParam(r, "username")
	if auth == nil || auth.Username != username {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	tokens := f.tokens[username]
	for i, t := range tokens {
		if t.ID == id {
			delete(f.secrets, t.Sha1)
			f.tokens[username] = append(tokens[:i], tokens[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *FakeServer) handleListKeys(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	if auth == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	keys := f.keys[auth.Username]
	if keys == nil {
		keys = []*gogs.PublicKey{}
	}
	writeJSON(w, http.StatusOK, keys)
}

func (f *FakeServer) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	if auth == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body struct {
		Title string `json:"title"`
		Key   string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Key == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	key := &gogs.PublicKey{ID: f.nextID, Title: body.Title, Key: body.Key}
	f.nextID++
	f.keys[auth.Username] = append(f.keys[auth.Username], key)
	writeJSON(w, http.StatusCreated, key)
}

func (f *FakeServer) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	if auth == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	keys := f.keys[auth.Username]
	for i, k := range keys {
		if k.ID == id {
			f.keys[auth.Username] = append(keys[:i], keys[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *FakeServer) handleCreateRepo(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateRepoCalls++
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	auth := f.authenticate(r)
	if auth == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	for _, repo := range f.repos {
		if repo.Owner.Username == auth.Username && repo.Name == body.Name {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "repository already exists"})
			return
		}
	}
	writeJSON(w, http.StatusCreated, f.addRepoLocked(auth.Username, body.Name))
}

func (f *FakeServer) handleSearchRepos(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	uid, _ := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}

	matches := []*gogs.Repository{}
	for _, repo := range f.repos {
		if uid != 0 && repo.Owner.ID != uid {
			continue
		}
		if q != "_" && !strings.Contains(repo.Name, q) {
			continue
		}
		// Search results omit clone URLs, like the real server.
		matches = append(matches, &gogs.Repository{
			ID:       repo.ID,
			Owner:    repo.Owner,
			Name:     repo.Name,
			FullName: repo.FullName,
		})
		if len(matches) >= limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": matches})
}

func (f *FakeServer) handleGetRepo(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.injected(r); ok {
		w.WriteHeader(status)
		return
	}
	owner := chi.URLParam(r, "owner")
	name := chi.URLParam(r, "name")
	for _, repo := range f.repos {
		if repo.Owner.Username == owner && repo.Name == name {
			writeJSON(w, http.StatusOK, repo)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}
