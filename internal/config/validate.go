package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	validCloneBackends = []string{"git", "go-git"}
	validAuthMethods   = []string{"none", "token", "ssh", "auto"}
	validLogFormats    = []string{"text", "json"}
)

// Validate checks if the configuration is valid
// It returns an error if any required fields are missing or invalid
// This should be called after loading the configuration
func (c *Config) Validate() error {
	if err := c.Templates.Validate(); err != nil {
		return fmt.Errorf("templates config: %w", err)
	}
	return c.ValidateCore()
}

// ValidateCore checks every section except templates. Only the template
// commands depend on the templates section, so the other commands run
// with just this check.
func (c *Config) ValidateCore() error {
	if err := c.Git.Validate(); err != nil {
		return fmt.Errorf("git config: %w", err)
	}
	if err := c.Tools.Validate(); err != nil {
		return fmt.Errorf("tools config: %w", err)
	}
	if c.Scaffold.KeystrokeDelay < 0 {
		return fmt.Errorf("scaffold config: keystroke_delay cannot be negative")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	return nil
}

// Validate checks if the templates configuration is valid
func (t *TemplatesConfig) Validate() error {
	if t.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if t.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if t.Path == "" {
		return fmt.Errorf("path is required")
	}
	if t.Branch == "" {
		return fmt.Errorf("branch is required")
	}

	u, err := url.Parse(t.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api_url: %s (must be an http or https URL)", t.APIURL)
	}

	if !isValidGitURL(t.CloneURL) {
		return fmt.Errorf("invalid clone_url: %s (must be SSH or HTTPS format)", t.CloneURL)
	}

	if !slices.Contains(validCloneBackends, t.CloneBackend) {
		return fmt.Errorf("invalid clone_backend: %s (must be one of: %s)",
			t.CloneBackend, strings.Join(validCloneBackends, ", "))
	}
	if !slices.Contains(validAuthMethods, t.AuthMethod) {
		return fmt.Errorf("invalid auth_method: %s (must be one of: %s)",
			t.AuthMethod, strings.Join(validAuthMethods, ", "))
	}

	if t.TempPrefix == "" || strings.ContainsAny(t.TempPrefix, `/\`) {
		return fmt.Errorf("invalid temp_prefix: %q (must be a plain directory name)", t.TempPrefix)
	}
	if t.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	return nil
}

// Validate checks if the git configuration is valid
func (g *GitConfig) Validate() error {
	if g.Remote == "" {
		return fmt.Errorf("remote is required")
	}
	if g.Branch == "" {
		return fmt.Errorf("branch is required")
	}
	return nil
}

// Validate checks that every tool has an executable name
func (t *ToolsConfig) Validate() error {
	for name, exe := range map[string]string{
		"git":  t.Git,
		"node": t.Node,
		"npm":  t.Npm,
		"npx":  t.Npx,
		"pnpm": t.Pnpm,
	} {
		if strings.TrimSpace(exe) == "" {
			return fmt.Errorf("%s executable is required", name)
		}
	}
	return nil
}

// Validate checks the logging configuration
func (l *LogConfig) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	if !slices.Contains(validLogFormats, l.Format) {
		return fmt.Errorf("invalid format: %s (must be one of: %s)",
			l.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}

// isValidGitURL checks if a string is a valid Git URL
// It accepts both SSH and HTTPS formats, plus file:// for local mirrors
func isValidGitURL(gitURL string) bool {
	if strings.HasPrefix(gitURL, "git@") || strings.HasPrefix(gitURL, "ssh://") {
		return true
	}

	if strings.HasPrefix(gitURL, "https://") || strings.HasPrefix(gitURL, "http://") ||
		strings.HasPrefix(gitURL, "file://") {
		_, err := url.Parse(gitURL)
		return err == nil
	}

	return false
}
