package config

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .docsync.yaml configuration file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version"`
	Server  ServerConfig `yaml:"server" mapstructure:"server"`
	Git     GitConfig    `yaml:"git" mapstructure:"git"`
	Paths   PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Push    PushConfig   `yaml:"push" mapstructure:"push"`
}

// ServerConfig points at the self-hosted Gogs instance.
type ServerConfig struct {
	// URL is the base API URL, e.g. https://git.example.org/api/v1
	URL string `yaml:"url" mapstructure:"url"`

	// UserAgent sent with every API request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// GitConfig controls the git transport and commit identity.
type GitConfig struct {
	// SSHPort for the git transport. Gogs clone URLs omit the port,
	// so it is pinned here.
	SSHPort int `yaml:"ssh_port" mapstructure:"ssh_port"`

	// Branch is the default branch pushed to the server.
	Branch string `yaml:"branch" mapstructure:"branch"`

	// AuthorName/AuthorEmail override the commit author when set.
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// PathsConfig controls where local state lives.
type PathsConfig struct {
	// DataDir holds SSH keys, the session profile, and project trees.
	// Empty means the platform default data directory.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// PushConfig tunes remote repository resolution.
type PushConfig struct {
	// SearchLimit caps how many search candidates are fetched when
	// resolving a repository by name. Server-side search matches
	// substrings, so sibling repos sharing a prefix show up too;
	// 100 covers realistic collision counts.
	SearchLimit int `yaml:"search_limit" mapstructure:"search_limit"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Server: ServerConfig{
			UserAgent: "docsync",
		},
		Git: GitConfig{
			SSHPort: 22,
			Branch:  "master",
		},
		Push: PushConfig{
			SearchLimit: 100,
		},
	}
}
