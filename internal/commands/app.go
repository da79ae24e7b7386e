package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/seraprogrammer/speeed/internal/console"
	"github.com/seraprogrammer/speeed/internal/fsops"
	"github.com/seraprogrammer/speeed/internal/git"
	"github.com/seraprogrammer/speeed/internal/runner"
	"github.com/seraprogrammer/speeed/internal/templates"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// NewLogger builds the diagnostic logger. Diagnostics go to w, never to the
// status-line streams.
func NewLogger(cfg config.LogConfig, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("invalid log level %s, defaulting to warn", cfg.Level)
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// lazyLister builds the contents API client when "ready" runs, so a broken
// templates section only affects the template commands
type lazyLister struct {
	config *config.TemplatesConfig
	log    logrus.FieldLogger
}

func (l *lazyLister) Templates(ctx context.Context) ([]string, error) {
	if err := l.config.Validate(); err != nil {
		return nil, fmt.Errorf("templates config: %w", err)
	}
	lister, err := templates.NewLister(l.config, l.log)
	if err != nil {
		return nil, err
	}
	return lister.Templates(ctx)
}

// NewApp wires the production collaborators: the os/exec runner, the OS
// filesystem rooted at workDir, the GitHub lister and the configured cloner.
// The template collaborators are resolved when a template command runs.
func NewApp(cfg *config.Config, c *console.Console, log *logrus.Logger, workDir string) *App {
	r := runner.NewExec(log)

	newCloner := func() (templates.Cloner, error) {
		if err := cfg.Templates.Validate(); err != nil {
			return nil, fmt.Errorf("templates config: %w", err)
		}
		cloner, err := templates.NewCloner(cfg, r, log)
		if err != nil {
			return nil, err
		}
		if client, ok := cloner.(*git.Client); ok {
			client.Progress = c.Err
		}
		return cloner, nil
	}

	fs := afero.NewOsFs()

	return &App{
		Config:    cfg,
		Console:   c,
		Runner:    r,
		Files:     fsops.New(fs, workDir),
		Lister:    &lazyLister{config: &cfg.Templates, log: log},
		Installer: templates.NewInstallerFunc(fs, workDir, newCloner, &cfg.Templates, log),
		Log:       log,
		WorkDir:   workDir,
		Probe:     NewHostProbe(),
	}
}

// Main runs one command line against the process streams and returns the
// process exit code
func Main(ctx context.Context, args []string) int {
	return Run(ctx, console.Std(), args)
}

// Run loads the configuration, runs one command line and returns the exit
// code: 1 for configuration, argument and unknown-command errors, 0 otherwise
// (a failing child process is reported but does not change the code).
func Run(ctx context.Context, c *console.Console, args []string) int {
	cfg, err := config.Load("")
	if err != nil {
		c.Error("Failed to load configuration: %v", err)
		return 1
	}

	// "config validate" reports problems itself; the templates section is
	// checked by the template commands when they run
	if len(args) == 0 || args[0] != "config" {
		if err := cfg.ValidateCore(); err != nil {
			c.Error("Invalid configuration: %v", err)
			return 1
		}
	}

	log := NewLogger(cfg.Log, c.Err)

	workDir, err := os.Getwd()
	if err != nil {
		c.Error("Failed to determine the working directory: %v", err)
		return 1
	}

	if err := Execute(ctx, NewApp(cfg, c, log, workDir), args); err != nil {
		ReportError(c, err)
		return 1
	}
	return 0
}
