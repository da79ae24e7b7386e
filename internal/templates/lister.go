// Package templates lists the starter templates published in a GitHub
// repository and installs one of them into the working directory.
//
// Listing uses the GitHub contents API directly; installing clones the
// repository into a hidden temporary directory and copies one template
// subtree out of it.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/seraprogrammer/speeed/internal/config"
	"github.com/sirupsen/logrus"
)

// Entry is one item of a GitHub contents API directory listing
// This is what we get back from GET /repos/{owner}/{repo}/contents/{path}
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file", "dir", "symlink" or "submodule"
}

// githubErrorResponse represents an error response from the GitHub API
type githubErrorResponse struct {
	Message       string `json:"message"`
	Documentation string `json:"documentation_url"`
}

// StatusError is returned when the contents API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github API error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("github API error: status %d", e.StatusCode)
}

// Lister reads the template directory of the configured repository.
// It is stateless: every call is one GET request.
type Lister struct {
	config     *config.TemplatesConfig
	httpClient *http.Client
	baseURL    string
	log        logrus.FieldLogger
}

// NewLister creates a contents API client for the template repository.
//
// Parameters:
//   - cfg: The templates configuration (owner, repo, path, branch, token)
//   - log: Logger used for request traces
//
// Returns:
//   - *Lister: A new lister
//   - error: Any error encountered during creation
func NewLister(cfg *config.TemplatesConfig, log logrus.FieldLogger) (*Lister, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("templates owner is required")
	}
	if cfg.Repo == "" {
		return nil, fmt.Errorf("templates repo is required")
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// GitHub API v3: {api}/repos/{owner}/{repo}/contents/{path}
	baseURL := fmt.Sprintf("%s/repos/%s/%s/contents",
		strings.TrimSuffix(cfg.APIURL, "/"), cfg.Owner, cfg.Repo)

	return &Lister{
		config:     cfg,
		httpClient: httpClient,
		baseURL:    baseURL,
		log:        log,
	}, nil
}

// Entries fetches the raw listing of the template directory.
func (l *Lister) Entries(ctx context.Context) ([]Entry, error) {
	url := l.baseURL
	if p := strings.Trim(l.config.Path, "/"); p != "" {
		url = fmt.Sprintf("%s/%s", l.baseURL, p)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if l.config.Token != "" {
		req.Header.Set("Authorization", "token "+l.config.Token)
	}

	q := req.URL.Query()
	q.Add("ref", l.config.Branch)
	req.URL.RawQuery = q.Encode()

	l.log.WithField("url", req.URL.String()).Debug("fetching template listing")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach GitHub API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp githubErrorResponse
		if json.Unmarshal(body, &errResp) == nil {
			statusErr.Message = errResp.Message
		}
		return nil, statusErr
	}

	// A path that names a file returns an object, not an array
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse GitHub response: %w", err)
	}

	return entries, nil
}

// Templates returns the names of the directories under the template path,
// in the order the API returned them.
func (l *Lister) Templates(ctx context.Context) ([]string, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type == "dir" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}
