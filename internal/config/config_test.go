package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty directory and clears token variables
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("SPEEED_CONFIG", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "seraprogrammer", cfg.Templates.Owner)
	assert.Equal(t, "speeed", cfg.Templates.Repo)
	assert.Equal(t, "template", cfg.Templates.Path)
	assert.Equal(t, "main", cfg.Templates.Branch)
	assert.Equal(t, "https://api.github.com", cfg.Templates.APIURL)
	assert.Equal(t, "https://github.com/seraprogrammer/speeed.git", cfg.Templates.CloneURL)
	assert.Equal(t, "git", cfg.Templates.CloneBackend)
	assert.Equal(t, ".temp-speeed", cfg.Templates.TempPrefix)
	assert.Equal(t, 30*time.Second, cfg.Templates.HTTPTimeout)
	assert.Equal(t, "origin", cfg.Git.Remote)
	assert.Equal(t, "main", cfg.Git.Branch)
	assert.Equal(t, "npm", cfg.Tools.Npm)
	assert.Equal(t, 500*time.Millisecond, cfg.Scaffold.KeystrokeDelay)
	assert.Equal(t, "warn", cfg.Log.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)

	content := `
[templates]
owner = "acme"
repo = "starters"
clone_backend = "go-git"
http_timeout = "5s"

[git]
branch = "trunk"
`
	path := filepath.Join(dir, "speeed.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("SPEEED_GIT_REMOTE", "upstream")
	t.Setenv("GH_TOKEN", "gh-token")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Templates.Owner)
	assert.Equal(t, "starters", cfg.Templates.Repo)
	assert.Equal(t, "https://github.com/acme/starters.git", cfg.Templates.CloneURL)
	assert.Equal(t, "go-git", cfg.Templates.CloneBackend)
	assert.Equal(t, 5*time.Second, cfg.Templates.HTTPTimeout)
	assert.Equal(t, "trunk", cfg.Git.Branch)
	assert.Equal(t, "upstream", cfg.Git.Remote)
	assert.Equal(t, "gh-token", cfg.Templates.Token)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing owner",
			mutate:  func(c *Config) { c.Templates.Owner = "" },
			wantErr: "owner is required",
		},
		{
			name:    "bad backend",
			mutate:  func(c *Config) { c.Templates.CloneBackend = "svn" },
			wantErr: "invalid clone_backend",
		},
		{
			name:    "bad auth method",
			mutate:  func(c *Config) { c.Templates.AuthMethod = "password" },
			wantErr: "invalid auth_method",
		},
		{
			name:    "bad api url",
			mutate:  func(c *Config) { c.Templates.APIURL = "ftp://example.com" },
			wantErr: "invalid api_url",
		},
		{
			name:    "bad clone url",
			mutate:  func(c *Config) { c.Templates.CloneURL = "example.com/repo" },
			wantErr: "invalid clone_url",
		},
		{
			name:    "temp prefix with separator",
			mutate:  func(c *Config) { c.Templates.TempPrefix = "../tmp" },
			wantErr: "invalid temp_prefix",
		},
		{
			name:    "empty tool",
			mutate:  func(c *Config) { c.Tools.Pnpm = " " },
			wantErr: "pnpm executable is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "invalid level",
		},
		{
			name:    "empty remote",
			mutate:  func(c *Config) { c.Git.Remote = "" },
			wantErr: "remote is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCore_IgnoresTemplates(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Templates.CloneBackend = "svn"
	cfg.Templates.Owner = ""

	assert.NoError(t, cfg.ValidateCore())
	assert.Error(t, cfg.Validate())

	cfg.Log.Format = "xml"
	err := cfg.ValidateCore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log config: invalid format")
}
