// Package gitrepo owns a single project working tree. It creates and opens
// the repository, detects dirty state, commits all changes, and manages
// named remotes. The git engine is go-git; no external git binary is
// required.
package gitrepo

import (
	"fmt"
	"os"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/docscantools/docsync/internal/logger"
)

// CommitMessage is used for every auto-save commit.
const CommitMessage = "auto save"

// Default commit identity when neither an author override nor repository
// config is present.
const (
	defaultAuthorName  = "translator"
	defaultAuthorEmail = "translator@localhost"
)

// RemoteExistsError is returned by SetRemote when the remote name is
// already configured. Callers must delete the remote first.
type RemoteExistsError struct {
	Name string
}

func (e *RemoteExistsError) Error() string {
	return fmt.Sprintf("remote %s already exists", e.Name)
}

// Repo wraps a working tree with a lazily opened git handle.
type Repo struct {
	path   string
	git    *git.Repository
	author *object.Signature
	log    logger.Logger

	// Index-lock retry policy, overridable in tests.
	lockRetries int
	lockDelay   time.Duration
	sleep       func(time.Duration)
}

// Open returns a Repo for path. The directory is created if missing and a
// fresh repository is initialized when no git metadata exists. Calling
// Open on an already initialized path only opens a handle.
func Open(path string) (*Repo, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	handle, err := git.PlainOpen(path)
	if err == git.ErrRepositoryNotExists {
		handle, err = git.PlainInit(path, false)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	return &Repo{
		path:        path,
		git:         handle,
		log:         logger.NewEnvLogger("[gitrepo]"),
		lockRetries: defaultLockRetries,
		lockDelay:   defaultLockDelay,
		sleep:       time.Sleep,
	}, nil
}

// Path returns the working tree path.
func (r *Repo) Path() string {
	return r.path
}

// SetLogger replaces the repo's logger.
func (r *Repo) SetLogger(l logger.Logger) {
	r.log = l
}

// SetAuthor overrides the commit author for subsequent commits.
func (r *Repo) SetAuthor(name, email string) {
	r.author = &object.Signature{Name: name, Email: email}
}

// IsClean reports whether the working tree has no staged or unstaged
// changes. A failure to query status counts as "not clean" so callers err
// toward committing; the failure is logged, never returned.
func (r *Repo) IsClean() bool {
	wt, err := r.git.Worktree()
	if err != nil {
		r.log.Warn("worktree unavailable for %s: %v", r.path, err)
		return false
	}
	status, err := wt.Status()
	if err != nil {
		r.log.Warn("status failed for %s: %v", r.path, err)
		return false
	}
	return status.IsClean()
}

// Commit stages everything (including deletions) and commits with the
// auto-save message. A clean tree is a successful no-op. Returns false on
// failure; callers must not push an uncommitted tree.
func (r *Repo) Commit() bool {
	if r.IsClean() {
		return true
	}

	wt, err := r.git.Worktree()
	if err != nil {
		r.log.Error("worktree unavailable for %s: %v", r.path, err)
		return false
	}

	err = r.withLockRetry(func() error {
		return wt.AddWithOptions(&git.AddOptions{All: true})
	})
	if err != nil {
		r.log.Error("staging failed for %s: %v", r.path, err)
		return false
	}

	sig := r.signature()
	err = r.withLockRetry(func() error {
		_, commitErr := wt.Commit(CommitMessage, &git.CommitOptions{
			All:    true,
			Author: sig,
		})
		return commitErr
	})
	if err != nil {
		r.log.Error("commit failed for %s: %v", r.path, err)
		return false
	}
	return true
}

// signature resolves the commit author: the override, then repository
// config, then the package default.
func (r *Repo) signature() *object.Signature {
	now := time.Now()
	if r.author != nil {
		return &object.Signature{Name: r.author.Name, Email: r.author.Email, When: now}
	}
	if cfg, err := r.git.Config(); err == nil && cfg.User.Name != "" {
		return &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email, When: now}
	}
	return &object.Signature{Name: defaultAuthorName, Email: defaultAuthorEmail, When: now}
}

// Remotes returns the configured remote names.
func (r *Repo) Remotes() []string {
	remotes, err := r.git.Remotes()
	if err != nil {
		r.log.Warn("listing remotes failed for %s: %v", r.path, err)
		return nil
	}
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	return names
}

// SetRemote configures a remote with the given URL and the standard
// all-branches fetch refspec. Fails with RemoteExistsError when the name
// is taken.
func (r *Repo) SetRemote(name, url string) error {
	fetch := gitconfig.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", name))
	_, err := r.git.CreateRemote(&gitconfig.RemoteConfig{
		Name:  name,
		URLs:  []string{url},
		Fetch: []gitconfig.RefSpec{fetch},
	})
	if err == git.ErrRemoteExists {
		return &RemoteExistsError{Name: name}
	}
	return err
}

// DeleteRemote removes remote configuration. Deleting a remote that does
// not exist is a no-op.
func (r *Repo) DeleteRemote(name string) error {
	err := r.git.DeleteRemote(name)
	if err == git.ErrRemoteNotFound {
		return nil
	}
	return err
}

// Push pushes with the given options, retrying through the index-lock
// policy. The raw go-git error is returned for classification by the
// caller.
func (r *Repo) Push(opts *git.PushOptions) error {
	return r.withLockRetry(func() error {
		return r.git.Push(opts)
	})
}
