package cli

import (
	"github.com/docscantools/docsync/internal/config"
	"github.com/docscantools/docsync/internal/gogs"
	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/paths"
	"github.com/docscantools/docsync/internal/push"
	"github.com/docscantools/docsync/internal/resolver"
	"github.com/docscantools/docsync/internal/session"
	"github.com/docscantools/docsync/internal/sshkeys"
)

// app holds the wired collaborators for one command invocation. Local-only
// commands use the base fields; connect adds everything that talks to the
// server.
type app struct {
	cfg   *config.Config
	paths paths.Provider
	keys  *sshkeys.Provisioner
	log   logger.Logger

	api         *gogs.Client
	session     *session.Session
	resolver    *resolver.Resolver
	coordinator *push.Coordinator
}

// loadConfig resolves and loads the config honoring --config, falling back
// to defaults when no file exists anywhere in the search path.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(configFlag)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newApp builds the local-only part of the wiring.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	root := cfg.Paths.DataDir
	if dataDirFlag != "" {
		root = dataDirFlag
	}
	if root == "" {
		root = paths.DefaultRoot()
	}
	p := paths.NewDirProvider(root)
	if err := paths.EnsureLayout(p); err != nil {
		return nil, err
	}

	log := logger.Default()
	keys := sshkeys.NewProvisioner(p)
	keys.SetLogger(log)

	return &app{cfg: cfg, paths: p, keys: keys, log: log}, nil
}

// connect wires the server-facing collaborators and loads the persisted
// session. Commands that only touch local state skip this.
func (a *app) connect() error {
	if err := config.RequireServer(a.cfg); err != nil {
		return err
	}

	a.api = gogs.New(a.cfg.Server.URL, a.cfg.Server.UserAgent)
	a.api.SetLogger(a.log)

	a.session = session.New(a.api, a.paths, a.keys)
	a.session.SetLogger(a.log)
	if err := a.session.Load(); err != nil {
		return err
	}

	a.resolver = resolver.New(a.api, a.cfg.Push.SearchLimit)
	a.resolver.SetLogger(a.log)

	a.coordinator = push.New(a.session, a.resolver, a.keys, a.paths, a.cfg)
	a.coordinator.SetLogger(a.log)
	return nil
}
