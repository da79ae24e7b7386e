// Package config handles loading and managing configuration for speeed.
// It uses Viper to support multiple configuration sources: an optional TOML
// file, environment variables, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variable overrides.
// Example: SPEEED_TEMPLATES_BRANCH=dev
const EnvPrefix = "SPEEED"

// Config is the main configuration structure for speeed
// It maps directly to the TOML configuration file structure
type Config struct {
	// Templates describes where starter templates are listed and cloned from
	Templates TemplatesConfig `mapstructure:"templates" yaml:"templates"`

	// Git holds defaults used by the git shortcut commands
	Git GitConfig `mapstructure:"git" yaml:"git"`

	// Tools maps each external tool to the executable that is spawned for it
	Tools ToolsConfig `mapstructure:"tools" yaml:"tools"`

	// Scaffold controls the interactive project scaffolds
	Scaffold ScaffoldConfig `mapstructure:"scaffold" yaml:"scaffold"`

	// Log controls diagnostic logging (not the status lines printed by commands)
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// TemplatesConfig holds the template repository configuration
type TemplatesConfig struct {
	// Owner is the GitHub owner of the template repository
	Owner string `mapstructure:"owner" yaml:"owner"`

	// Repo is the GitHub repository name
	Repo string `mapstructure:"repo" yaml:"repo"`

	// Path is the directory inside the repository that holds one folder per template
	Path string `mapstructure:"path" yaml:"path"`

	// Branch is the branch listed and cloned
	Branch string `mapstructure:"branch" yaml:"branch"`

	// APIURL is the base URL of the GitHub REST API
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// CloneURL is the URL cloned by install. Derived from Owner/Repo when empty.
	CloneURL string `mapstructure:"clone_url" yaml:"clone_url"`

	// CloneBackend selects how install clones the repository:
	// "git" - spawns the git executable (default)
	// "go-git" - clones in-process with go-git
	CloneBackend string `mapstructure:"clone_backend" yaml:"clone_backend"`

	// AuthMethod is used by the go-git backend: "none", "token", "ssh" or "auto"
	AuthMethod string `mapstructure:"auth_method" yaml:"auth_method"`

	// SSHKeyPath is the private key used when AuthMethod is "ssh" (optional)
	SSHKeyPath string `mapstructure:"ssh_key_path" yaml:"ssh_key_path"`

	// Token is a GitHub token sent to the contents API and used for token auth.
	// Can also be set via GITHUB_TOKEN or GH_TOKEN environment variables.
	Token string `mapstructure:"token" yaml:"token"`

	// TempPrefix is the name prefix of the hidden clone directory
	TempPrefix string `mapstructure:"temp_prefix" yaml:"temp_prefix"`

	// HTTPTimeout bounds the contents API request
	HTTPTimeout time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
}

// GitConfig holds defaults for the git shortcuts
type GitConfig struct {
	// Remote is the remote name used by push, remove and addRemote
	Remote string `mapstructure:"remote" yaml:"remote"`

	// Branch is the branch pushed to and renamed to by reBranch
	Branch string `mapstructure:"branch" yaml:"branch"`
}

// ToolsConfig maps tools to executable names
type ToolsConfig struct {
	Git  string `mapstructure:"git" yaml:"git"`
	Node string `mapstructure:"node" yaml:"node"`
	Npm  string `mapstructure:"npm" yaml:"npm"`
	Npx  string `mapstructure:"npx" yaml:"npx"`
	Pnpm string `mapstructure:"pnpm" yaml:"pnpm"`
}

// ScaffoldConfig holds scaffold settings
type ScaffoldConfig struct {
	// KeystrokeDelay is how long the react scaffold waits before answering
	// the framework prompt
	KeystrokeDelay time.Duration `mapstructure:"keystroke_delay" yaml:"keystroke_delay"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Level is a logrus level name ("debug", "info", "warn", ...)
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "text" or "json"
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration from a file and environment variables
// It follows this precedence order (highest to lowest):
//  1. Environment variables
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to the configuration file. If empty, SPEEED_CONFIG is
//     consulted, then "speeed.toml" in the current directory and in
//     $HOME/.config/speeed. A missing default file is not an error.
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Any error encountered during loading
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("speeed")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "speeed"))
		}
	}

	// Example: SPEEED_TEMPLATES_CLONE_BACKEND=go-git
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file anywhere: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg
}

// setDefaults sets default values for configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("templates.owner", "seraprogrammer")
	v.SetDefault("templates.repo", "speeed")
	v.SetDefault("templates.path", "template")
	v.SetDefault("templates.branch", "main")
	v.SetDefault("templates.api_url", "https://api.github.com")
	v.SetDefault("templates.clone_url", "")
	v.SetDefault("templates.clone_backend", "git")
	v.SetDefault("templates.auth_method", "none")
	v.SetDefault("templates.ssh_key_path", "")
	v.SetDefault("templates.token", "")
	v.SetDefault("templates.temp_prefix", ".temp-speeed")
	v.SetDefault("templates.http_timeout", "30s")

	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.branch", "main")

	v.SetDefault("tools.git", "git")
	v.SetDefault("tools.node", "node")
	v.SetDefault("tools.npm", "npm")
	v.SetDefault("tools.npx", "npx")
	v.SetDefault("tools.pnpm", "pnpm")

	v.SetDefault("scaffold.keystroke_delay", "500ms")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// applyEnvOverrides applies overrides that come from unprefixed variables
// and fills fields derived from others
func applyEnvOverrides(cfg *Config) {
	if cfg.Templates.Token == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			cfg.Templates.Token = token
		} else if token := os.Getenv("GH_TOKEN"); token != "" {
			cfg.Templates.Token = token
		}
	}

	if cfg.Templates.CloneURL == "" && cfg.Templates.Owner != "" && cfg.Templates.Repo != "" {
		cfg.Templates.CloneURL = fmt.Sprintf("https://github.com/%s/%s.git",
			cfg.Templates.Owner, cfg.Templates.Repo)
	}
}
