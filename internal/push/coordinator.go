package push

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"

	"github.com/docscantools/docsync/internal/config"
	"github.com/docscantools/docsync/internal/gitrepo"
	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/paths"
	"github.com/docscantools/docsync/internal/project"
	"github.com/docscantools/docsync/internal/resolver"
	"github.com/docscantools/docsync/internal/session"
	"github.com/docscantools/docsync/internal/sshkeys"
)

// remoteName is the remote every push goes through. It is recreated on
// each attempt so a stale URL from an earlier server move cannot linger.
const remoteName = "origin"

// Stage messages reported through the Progress sink.
const (
	StagePreparing   = "Preparing location on server"
	StageSearching   = "Searching for repositories"
	StageGettingRepo = "Getting repository"
	StageAuth        = "Authenticating"
	StageUploading   = "Uploading translation"
)

// Progress receives stage messages while a push runs.
type Progress interface {
	Step(message string)
}

// ProgressFunc adapts a function to the Progress interface.
type ProgressFunc func(message string)

func (f ProgressFunc) Step(message string) { f(message) }

type nopProgress struct{}

func (nopProgress) Step(string) {}

// Coordinator runs the end-to-end upload for one project.
type Coordinator struct {
	session  *session.Session
	resolver *resolver.Resolver
	keys     *sshkeys.Provisioner
	paths    paths.Provider
	cfg      *config.Config
	log      logger.Logger
}

// New wires a coordinator from its collaborators.
func New(s *session.Session, r *resolver.Resolver, keys *sshkeys.Provisioner, p paths.Provider, cfg *config.Config) *Coordinator {
	return &Coordinator{
		session:  s,
		resolver: r,
		keys:     keys,
		paths:    p,
		cfg:      cfg,
		log:      logger.Default(),
	}
}

// SetLogger replaces the logger.
func (c *Coordinator) SetLogger(l logger.Logger) {
	c.log = l
}

// Push commits outstanding local changes and uploads the project's branch.
// It never returns an error: every failure mode is folded into the outcome
// status so callers can present and react to it uniformly.
func (c *Coordinator) Push(id project.Identity, progress Progress) Outcome {
	if progress == nil {
		progress = nopProgress{}
	}

	if !c.session.LoggedIn() {
		c.log.Warn("push %s: no active session", id.Slug())
		return Outcome{Status: StatusAuthFailure, Message: "not logged in"}
	}
	user := c.session.User()

	progress.Step(StagePreparing)
	repo, err := gitrepo.Open(id.Dir(c.paths))
	if err != nil {
		c.log.Error("push %s: failed to open repository: %v", id.Slug(), err)
		return Outcome{Status: StatusUnknown, Message: "failed to open local repository"}
	}
	repo.SetLogger(c.log)
	if c.cfg.Git.AuthorName != "" || c.cfg.Git.AuthorEmail != "" {
		repo.SetAuthor(c.cfg.Git.AuthorName, c.cfg.Git.AuthorEmail)
	}
	if !repo.Commit() {
		return Outcome{Status: StatusUnknown, Message: "failed to save local changes"}
	}

	progress.Step(StageSearching)
	remote := c.resolver.Resolve(id, user)
	if remote == nil {
		return Outcome{Status: StatusNoRemoteRepo, Message: "repository not found on server"}
	}

	progress.Step(StageGettingRepo)
	host := sshkeys.Host(remote.SSHURL)
	port := sshkeys.ResolvePort(host, c.cfg.Git.SSHPort)
	pushURL, err := sshkeys.RewriteURL(remote.SSHURL, port)
	if err != nil {
		c.log.Error("push %s: %v", id.Slug(), err)
		return Outcome{Status: StatusUnknown, Message: "server returned an unusable clone address"}
	}
	if err := repo.DeleteRemote(remoteName); err != nil {
		c.log.Warn("push %s: failed to drop remote: %v", id.Slug(), err)
	}
	if err := repo.SetRemote(remoteName, pushURL); err != nil {
		c.log.Error("push %s: failed to set remote: %v", id.Slug(), err)
		return Outcome{Status: StatusUnknown, Message: "failed to configure remote"}
	}

	progress.Step(StageAuth)
	auth, err := c.keys.AuthMethod()
	if err != nil {
		c.log.Error("push %s: %v", id.Slug(), err)
		return Outcome{Status: StatusAuthFailure, Message: "no usable ssh key"}
	}

	progress.Step(StageUploading)
	branch := c.cfg.Git.Branch
	refSpec := gitcfg.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	pushErr := repo.Push(&git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []gitcfg.RefSpec{refSpec},
		Auth:       auth,
		FollowTags: true,
	})

	outcome := Summarize(RefUpdates("refs/heads/"+branch, pushErr))
	if outcome.OK() {
		c.log.Info("push %s: done", id.Slug())
	} else {
		c.log.Warn("push %s: %s", id.Slug(), outcome.Status)
	}
	return outcome
}
