package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/docscantools/docsync/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".docsync.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/docsync"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'docsync init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .docsync.yaml in current directory
// 3. .docsync.yaml in parent directories (stops at home)
// 4. ~/.config/docsync/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Current directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	// 3. Walk up to parent directories
	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	// 4. Global config
	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if not found.
// Useful for commands like 'docsync init' that should work without existing config.
func LoadOrDefault() (*Config, error) {
	path, err := Find("")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// parseConfig unmarshals viper state into a Config and validates it.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config file: "+path,
			"Check the YAML structure against the documented format")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks config invariants that apply regardless of command.
func Validate(cfg *Config) error {
	if cfg.Version != CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported config version %d (expected %d)", cfg.Version, CurrentConfigVersion),
			"Regenerate the config with 'docsync init'")
	}
	if cfg.Git.SSHPort <= 0 || cfg.Git.SSHPort > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid SSH port %d", cfg.Git.SSHPort),
			"Set git.ssh_port to a value between 1 and 65535")
	}
	if cfg.Git.Branch == "" {
		return errors.New(errors.ErrConfig,
			"git.branch must not be empty",
			"Set git.branch (the server default is usually 'master')")
	}
	if cfg.Push.SearchLimit <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid search limit %d", cfg.Push.SearchLimit),
			"Set push.search_limit to a positive number (default 100)")
	}
	return nil
}

// RequireServer validates that the server URL is set, for commands that
// talk to the hosting service.
func RequireServer(cfg *Config) error {
	if cfg.Server.URL == "" {
		return errors.New(errors.ErrConfig,
			"No server URL configured",
			"Set server.url in your config, e.g. https://git.example.org/api/v1")
	}
	return nil
}
