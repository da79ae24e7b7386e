package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/seraprogrammer/speeed/internal/config"
)

// ResolveAuth determines the Git authentication method for cloning templates.
//
// The auth_method config setting controls the strategy:
//   - "none": anonymous clone (public template repositories)
//   - "ssh": Use SSH keys only
//   - "token": Use HTTPS token only
//   - "auto": Try SSH first, fall back to token, then anonymous
//
// Parameters:
//   - cfg: Templates configuration from config file
//
// Returns:
//   - transport.AuthMethod: The authentication method to use (nil for anonymous)
//   - error: Any error encountered during auth resolution
func ResolveAuth(cfg *config.TemplatesConfig) (transport.AuthMethod, error) {
	switch cfg.AuthMethod {
	case "", "none":
		return nil, nil

	case "ssh":
		return ResolveSSHAuth(cfg)

	case "token":
		return ResolveTokenAuth(cfg)

	case "auto":
		if auth, err := ResolveSSHAuth(cfg); err == nil {
			return auth, nil
		}
		if auth, err := ResolveTokenAuth(cfg); err == nil {
			return auth, nil
		}
		// Template repositories are usually public
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown auth method: %s (use 'none', 'ssh', 'token', or 'auto')", cfg.AuthMethod)
	}
}

// ResolveSSHAuth creates SSH-based authentication
//
// SSH authentication sources (in order):
//  1. Explicit key path from config (templates.ssh_key_path)
//  2. SSH agent (if available)
//  3. Default SSH keys (~/.ssh/id_ed25519, ~/.ssh/id_rsa, ~/.ssh/id_ecdsa)
func ResolveSSHAuth(cfg *config.TemplatesConfig) (transport.AuthMethod, error) {
	keyPath := cfg.SSHKeyPath
	if keyPath == "" {
		// No explicit key: the agent holds keys in memory
		if auth, err := ssh.NewSSHAgentAuth("git"); err == nil {
			return auth, nil
		}

		var err error
		keyPath, err = findDefaultSSHKey()
		if err != nil {
			return nil, fmt.Errorf("SSH key not found: %w", err)
		}
	}

	// Expand ~ to home directory if present
	if keyPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		keyPath = filepath.Join(homeDir, keyPath[1:])
	}

	// The "git" parameter is the username (always "git" for Git servers)
	publicKeys, err := ssh.NewPublicKeysFromFile("git", keyPath, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key from %s: %w", keyPath, err)
	}

	return publicKeys, nil
}

// ResolveTokenAuth creates token-based authentication for HTTPS.
// The token comes from templates.token, which config.Load already fills from
// GITHUB_TOKEN or GH_TOKEN when unset.
func ResolveTokenAuth(cfg *config.TemplatesConfig) (transport.AuthMethod, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("no GitHub token found (set via config, GITHUB_TOKEN, or GH_TOKEN)")
	}

	// GitHub takes the token as the Basic Auth password; the username is ignored
	return &http.BasicAuth{
		Username: "speeed",
		Password: cfg.Token,
	}, nil
}

// findDefaultSSHKey searches for SSH keys in standard locations
func findDefaultSSHKey() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	keyTypes := []string{"id_ed25519", "id_rsa", "id_ecdsa"}
	for _, keyType := range keyTypes {
		keyPath := filepath.Join(homeDir, ".ssh", keyType)
		if _, err := os.Stat(keyPath); err == nil {
			return keyPath, nil
		}
	}

	return "", fmt.Errorf("no SSH keys found in ~/.ssh/ (tried: %v)", keyTypes)
}

// GetAuthDescription returns a human-readable description of the auth method
// for logs, without exposing secrets
func GetAuthDescription(auth transport.AuthMethod) string {
	if auth == nil {
		return "anonymous"
	}

	switch auth.(type) {
	case *ssh.PublicKeys:
		return "SSH key"
	case *ssh.PublicKeysCallback:
		return "SSH agent"
	case *http.BasicAuth:
		return "HTTPS token"
	default:
		return "unknown"
	}
}
