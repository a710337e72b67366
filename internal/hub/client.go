// This file implements the low-level REST client for the hosting API.
package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/config"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// Doer executes HTTP requests. Used for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBodyBytes bounds how much of an API error body is retained.
const maxErrorBodyBytes = 4 << 10

// apiError carries a failed API call's status and classification.
type apiError struct {
	status  int
	body    string
	errType ErrorType
}

// Error implements the error interface.
func (e *apiError) Error() string {
	body := e.body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("api returned status %d (%s): %s", e.status, e.errType, body)
}

// FileContent is a file fetched from the repository contents API.
type FileContent struct {
	// Content is the decoded file content.
	Content string
	// SHA is the blob SHA required to update the file.
	SHA string
}

// APIClient performs REST calls against the hosting API.
type APIClient struct {
	baseURL string
	token   string
	doer    Doer
	logger  zerolog.Logger

	loginMu sync.Mutex
	login   string
}

// APIClientOption configures an APIClient.
type APIClientOption func(*APIClient)

// NewAPIClient creates a REST client for the configured hub. The access
// token is resolved from the configured environment variable once at
// construction.
func NewAPIClient(cfg *config.HubConfig, opts ...APIClientOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token(),
		doer:    &http.Client{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithAPIDoer sets a custom HTTP doer (for testing).
func WithAPIDoer(doer Doer) APIClientOption {
	return func(c *APIClient) {
		c.doer = doer
	}
}

// WithAPILogger sets the logger for API operations.
func WithAPILogger(logger zerolog.Logger) APIClientOption {
	return func(c *APIClient) {
		c.logger = logger
	}
}

// WithAPIToken overrides the token resolved from the environment.
func WithAPIToken(token string) APIClientOption {
	return func(c *APIClient) {
		c.token = token
	}
}

// AuthenticatedLogin returns the login of the token's user. A successful
// lookup is cached for the lifetime of the client.
func (c *APIClient) AuthenticatedLogin(ctx context.Context) (string, error) {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	if c.login != "" {
		return c.login, nil
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := c.call(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return "", pserrors.Wrap(err, "failed to resolve authenticated user")
	}

	c.login = user.Login
	return c.login, nil
}

// CreateRepo creates a repository owned by the authenticated user.
// Returns ErrRepoExists when a repository with the name already exists.
func (c *APIClient) CreateRepo(ctx context.Context, name, description string) error {
	body := map[string]any{
		"name":        name,
		"description": description,
		"auto_init":   false,
	}

	err := c.call(ctx, http.MethodPost, "/user/repos", body, nil)
	if err != nil {
		if ClassifyError(err) == ErrorTypeConflict {
			// Keep the classified error in the chain so retry logic
			// still sees the conflict as terminal.
			return fmt.Errorf("repository %q: %w: %w", name, pserrors.ErrRepoExists, err)
		}
		return pserrors.Wrapf(err, "failed to create repository %q", name)
	}

	c.logger.Info().Str("repo", name).Msg("repository created")
	return nil
}

// GetFile fetches a file from the repository contents API.
// Returns ErrRepoNotFound or ErrFileNotFound on 404 depending on whether
// the repository itself is missing.
func (c *APIClient) GetFile(ctx context.Context, owner, repo, path string) (*FileContent, error) {
	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
		SHA      string `json:"sha"`
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		if ClassifyError(err) == ErrorTypeNotFound {
			if exists, probeErr := c.repoExists(ctx, owner, repo); probeErr == nil && !exists {
				return nil, fmt.Errorf("repository %s/%s: %w: %w", owner, repo, pserrors.ErrRepoNotFound, err)
			}
			return nil, fmt.Errorf("file %q in %s/%s: %w: %w", path, owner, repo, pserrors.ErrFileNotFound, err)
		}
		return nil, pserrors.Wrapf(err, "failed to fetch %q from %s/%s", path, owner, repo)
	}

	content := payload.Content
	if payload.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
		if err != nil {
			return nil, pserrors.Wrapf(err, "failed to decode %q", path)
		}
		content = string(decoded)
	}

	return &FileContent{Content: content, SHA: payload.SHA}, nil
}

// PutFile creates or updates a file through the repository contents API.
// sha must be the current blob SHA when updating an existing file and
// empty when creating a new one. Returns the resulting commit SHA.
func (c *APIClient) PutFile(ctx context.Context, owner, repo, path, message, content, sha string) (string, error) {
	body := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	}
	if sha != "" {
		body["sha"] = sha
	}

	var payload struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	if err := c.call(ctx, http.MethodPut, endpoint, body, &payload); err != nil {
		return "", pserrors.Wrapf(err, "failed to write %q to %s/%s", path, owner, repo)
	}

	c.logger.Debug().
		Str("repo", repo).
		Str("path", path).
		Str("commit_sha", payload.Commit.SHA).
		Msg("file committed")

	return payload.Commit.SHA, nil
}

// EnablePages enables Pages hosting from the root of the given branch.
// An already-enabled site is not an error.
func (c *APIClient) EnablePages(ctx context.Context, owner, repo, branch string) error {
	body := map[string]any{
		"source": map[string]string{
			"branch": branch,
			"path":   "/",
		},
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/pages", owner, repo)
	if err := c.call(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		// 409 means the site is already configured
		if ClassifyError(err) == ErrorTypeConflict {
			c.logger.Debug().Str("repo", repo).Msg("pages already enabled")
			return nil
		}
		return pserrors.Wrapf(err, "failed to enable pages for %s/%s", owner, repo)
	}

	c.logger.Info().Str("repo", repo).Str("branch", branch).Msg("pages enabled")
	return nil
}

// GetBranchHead returns the head commit SHA of a branch.
func (c *APIClient) GetBranchHead(ctx context.Context, owner, repo, branch string) (string, error) {
	var payload struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/branches/%s", owner, repo, branch)
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return "", pserrors.Wrapf(err, "failed to resolve head of %s/%s@%s", owner, repo, branch)
	}
	return payload.Commit.SHA, nil
}

// repoExists probes for the repository without surfacing a 404 as an error.
func (c *APIClient) repoExists(ctx context.Context, owner, repo string) (bool, error) {
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, nil)
	if err != nil {
		if ClassifyError(err) == ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// call performs one authenticated API request, decoding a success body
// into out when out is non-nil and classifying failure statuses.
func (c *APIClient) call(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pserrors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return pserrors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", pserrors.ErrHubOperation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: %w", pserrors.ErrHubOperation, &apiError{
			status:  resp.StatusCode,
			body:    string(errBody),
			errType: ClassifyStatus(resp.StatusCode),
		})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pserrors.Wrap(err, "failed to decode response body")
		}
	}

	return nil
}
