package templates

import (
	"context"
	"fmt"

	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/seraprogrammer/speeed/internal/git"
	"github.com/seraprogrammer/speeed/internal/runner"
	"github.com/sirupsen/logrus"
)

// Cloner fetches a shallow copy of one branch of a repository into dest.
// dest must not exist yet.
type Cloner interface {
	Clone(ctx context.Context, url, branch, dest string) error
	Name() string
}

// CLICloner shells out to the git executable.
type CLICloner struct {
	Runner runner.Runner
	Git    string
}

// Clone runs git clone --depth 1 with inherited stdio so progress is visible.
func (c *CLICloner) Clone(ctx context.Context, url, branch, dest string) error {
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dest)

	res := c.Runner.Run(ctx, runner.Spec{Name: c.Git, Args: args})
	if res.Err != nil {
		return fmt.Errorf("git clone failed: %w", res.Err)
	}
	return nil
}

// Name implements Cloner.
func (c *CLICloner) Name() string {
	return "git"
}

// NewCloner creates the cloner selected by templates.clone_backend.
//
// Supported backends:
//   - "git" (default): spawns the configured git executable
//   - "go-git": clones in-process, no git executable required
func NewCloner(cfg *config.Config, r runner.Runner, log logrus.FieldLogger) (Cloner, error) {
	backend := cfg.Templates.CloneBackend
	if backend == "" {
		backend = "git"
	}

	switch backend {
	case "git":
		return &CLICloner{Runner: r, Git: cfg.Tools.Git}, nil

	case "go-git":
		client, err := git.NewClient(&cfg.Templates, log)
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported clone backend: %s (supported: git, go-git)", backend)
	}
}
