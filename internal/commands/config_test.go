package commands

import (
	"testing"

	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigShow_RedactsToken(t *testing.T) {
	env := newTestEnv(t)
	env.app.Config.Templates.Token = "ghp_secret"

	require.NoError(t, env.run(t, "config", "show"))

	out := env.out.String()
	assert.NotContains(t, out, "ghp_secret")
	assert.Contains(t, out, "********")
	assert.Equal(t, "ghp_secret", env.app.Config.Templates.Token, "the live config must not be modified")

	var shown config.Config
	require.NoError(t, yaml.Unmarshal(env.out.Bytes(), &shown))
	assert.Equal(t, "seraprogrammer", shown.Templates.Owner)
	assert.Equal(t, env.app.Config.Scaffold.KeystrokeDelay, shown.Scaffold.KeystrokeDelay)
	assert.Equal(t, "origin", shown.Git.Remote)
}

func TestConfigValidate(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "config", "validate"))
	assert.Contains(t, env.out.String(), "[SUCCESS] Configuration is valid")
	assert.Contains(t, env.out.String(), "Clone backend: git")
}

func TestConfigValidate_Invalid(t *testing.T) {
	env := newTestEnv(t)
	env.app.Config.Templates.CloneBackend = "svn"

	err := env.run(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration is invalid: templates config: invalid clone_backend: svn")
}

func TestConfig_UnknownOperation(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(t, "config", "edit")
	var invalid *dispatch.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "speeed config show | speeed config validate", dispatch.UsageOf(err))
}
