package commands

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/seraprogrammer/speeed/internal/dispatch"
	"github.com/seraprogrammer/speeed/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReady_WithContentsAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/seraprogrammer/speeed/contents/template", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"name": "react-router", "path": "template/react-router", "type": "dir"},
			{"name": "README.md", "path": "template/README.md", "type": "file"},
			{"name": "express-api", "path": "template/express-api", "type": "dir"}
		]`)
	}))
	defer server.Close()

	env := newTestEnv(t)
	cfg := &config.TemplatesConfig{
		Owner:       "seraprogrammer",
		Repo:        "speeed",
		Path:        "template",
		Branch:      "main",
		APIURL:      server.URL,
		HTTPTimeout: 5 * time.Second,
	}
	lister, err := templates.NewLister(cfg, quietLogger())
	require.NoError(t, err)
	env.app.Lister = lister

	require.NoError(t, env.run(t, "-rd"))

	out := env.out.String()
	assert.Contains(t, out, "Found 2 templates:\n")
	assert.Contains(t, out, "- Template: react-router\n")
	assert.Contains(t, out, "- Template: express-api\n")
	assert.NotContains(t, out, "README.md")
}

func TestReady_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.app.Lister = &fakeLister{err: &templates.StatusError{StatusCode: 403, Message: "API rate limit exceeded"}}

	require.NoError(t, env.run(t, "ready"))
	assert.Contains(t, env.err.String(), "[ERROR] Failed to fetch templates: github API error: API rate limit exceeded (status 403)")
}

func TestReady_Counts(t *testing.T) {
	assert.Equal(t, "Found 0 templates:", foundLine(0))
	assert.Equal(t, "Found 1 template:", foundLine(1))
	assert.Equal(t, "Found 3 templates:", foundLine(3))
}

func TestInstall(t *testing.T) {
	env := newTestEnv(t)
	inst := &fakeInstaller{}
	env.app.Installer = inst

	require.NoError(t, env.run(t, "-temp", "react-router"))

	assert.Equal(t, []string{"react-router"}, inst.installed)
	assert.Contains(t, env.out.String(), "Successfully installed react-router template in /work/react-router")
	assert.Contains(t, env.out.String(), "cd react-router")
}

func TestInstall_TargetExists(t *testing.T) {
	env := newTestEnv(t)
	env.app.Installer = &fakeInstaller{err: fmt.Errorf("%w: /work/app", templates.ErrTargetExists)}

	require.NoError(t, env.run(t, "install", "app"))
	assert.Contains(t, env.err.String(), "A folder named 'app' already exists")
	assert.NotContains(t, env.out.String(), "[SUCCESS]")
}

func TestInstall_OtherFailure(t *testing.T) {
	env := newTestEnv(t)
	env.app.Installer = &fakeInstaller{err: &templates.TemplateNotFoundError{Name: "nope"}}

	require.NoError(t, env.run(t, "install", "nope"))
	assert.Contains(t, env.err.String(), "Failed to install nope template:")
}

func TestInstall_InvalidName(t *testing.T) {
	for _, name := range []string{"..", "a/b", "."} {
		env := newTestEnv(t)
		inst := &fakeInstaller{}
		env.app.Installer = inst

		err := env.run(t, "install", name)
		var invalid *dispatch.InvalidArgumentError
		require.True(t, errors.As(err, &invalid), name)
		assert.Empty(t, inst.installed)
	}
}
