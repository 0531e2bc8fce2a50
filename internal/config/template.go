package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docscantools/docsync/internal/errors"
)

// WriteTemplate renders a starter config to path. Fails when the file
// already exists unless force is set.
func WriteTemplate(path, serverURL string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			"Config file already exists: "+path,
			"Use --force to overwrite")
	}

	cfg := Default()
	cfg.Server.URL = serverURL

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render config template", "")
	}

	header := []byte("# docsync configuration\n# server.url points at the Gogs API, e.g. https://git.example.org/api/v1\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file: "+path,
			"Check directory permissions")
	}
	return nil
}
