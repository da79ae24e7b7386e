package commands

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/seraprogrammer/speeed/internal/console"
	"github.com/seraprogrammer/speeed/internal/fsops"
	"github.com/seraprogrammer/speeed/internal/runner/runnertest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const workDir = "/work"

type testEnv struct {
	app    *App
	runner *runnertest.Fake
	fs     afero.Fs
	out    *bytes.Buffer
	err    *bytes.Buffer
}

type fakeLister struct {
	names []string
	err   error
	calls int
}

func (f *fakeLister) Templates(context.Context) ([]string, error) {
	f.calls++
	return f.names, f.err
}

type fakeInstaller struct {
	installed []string
	err       error
}

func (f *fakeInstaller) Install(_ context.Context, name string) (string, error) {
	f.installed = append(f.installed, name)
	if f.err != nil {
		return "", f.err
	}
	return workDir + "/" + name, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Templates.Token = ""
	cfg.Scaffold.KeystrokeDelay = 0
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(workDir, 0o755))

	out, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	fake := runnertest.New()

	app := &App{
		Config:    testConfig(),
		Console:   console.New(out, errBuf),
		Runner:    fake,
		Files:     fsops.New(fs, workDir),
		Lister:    &fakeLister{},
		Installer: &fakeInstaller{},
		Log:       quietLogger(),
		WorkDir:   workDir,
		Pick:      func(int) int { return 0 },
		Now:       func() time.Time { return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC) },
	}

	return &testEnv{app: app, runner: fake, fs: fs, out: out, err: errBuf}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	return Execute(context.Background(), e.app, args)
}
