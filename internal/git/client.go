// Package git clones template repositories in-process with go-git, a pure Go
// implementation that doesn't require the git binary.
package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/sirupsen/logrus"
)

// Client wraps go-git clone operations
type Client struct {
	// config stores the templates configuration (auth method, key path, token)
	config *config.TemplatesConfig

	// auth is the authentication method to use for Git operations.
	// nil means anonymous access.
	auth transport.AuthMethod

	// Progress receives the remote's progress output when set
	Progress io.Writer

	log logrus.FieldLogger
}

// NewClient creates a new Git client with the given configuration
// This resolves authentication but doesn't touch the network yet
//
// Parameters:
//   - cfg: Templates configuration from config file
//   - log: Logger for clone traces
//
// Returns:
//   - *Client: The Git client
//   - error: Any error encountered
func NewClient(cfg *config.TemplatesConfig, log logrus.FieldLogger) (*Client, error) {
	auth, err := ResolveAuth(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Git authentication: %w", err)
	}

	return &Client{
		config: cfg,
		auth:   auth,
		log:    log,
	}, nil
}

// Name identifies this clone backend in logs
func (c *Client) Name() string {
	return "go-git"
}

// Clone performs a shallow, single-branch clone of url into dest.
// On failure anything written to dest is removed.
func (c *Client) Clone(ctx context.Context, url, branch, dest string) error {
	// Ensure the parent directory exists
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL:  url,
		Auth: c.auth,

		// SingleBranch with Depth 1: only the latest commit of one branch
		SingleBranch: true,
		Depth:        1,

		Progress: c.Progress,
	}
	if branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	c.log.WithFields(logrus.Fields{
		"url":  url,
		"auth": GetAuthDescription(c.auth),
	}).Debug("go-git clone")

	if _, err := git.PlainCloneContext(ctx, dest, false, cloneOpts); err != nil {
		_ = os.RemoveAll(dest)
		return fmt.Errorf("failed to clone repository %s: %w", url, err)
	}

	return nil
}
