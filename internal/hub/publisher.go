// This file implements the high-level site publisher built on APIClient.
package hub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/clock"
	"github.com/mrz1836/pagesmith/internal/config"
	"github.com/mrz1836/pagesmith/internal/constants"
	"github.com/mrz1836/pagesmith/internal/ctxutil"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// SitePublisher publishes site bundles through the hosting API.
type SitePublisher struct {
	client      *APIClient
	cfg         *config.HubConfig
	clock       clock.Clock
	logger      zerolog.Logger
	retryConfig RetryConfig
}

// Compile-time interface check.
var _ Publisher = (*SitePublisher)(nil)

// PublisherOption configures a SitePublisher.
type PublisherOption func(*SitePublisher)

// NewSitePublisher creates a publisher for the configured hub.
func NewSitePublisher(cfg *config.HubConfig, client *APIClient, opts ...PublisherOption) *SitePublisher {
	p := &SitePublisher{
		client:      client,
		cfg:         cfg,
		clock:       clock.RealClock{},
		logger:      zerolog.Nop(),
		retryConfig: DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithPublisherLogger sets the logger for publish operations.
func WithPublisherLogger(logger zerolog.Logger) PublisherOption {
	return func(p *SitePublisher) {
		p.logger = logger
	}
}

// WithPublisherClock sets the clock used for settle waits (for testing).
func WithPublisherClock(c clock.Clock) PublisherOption {
	return func(p *SitePublisher) {
		p.clock = c
	}
}

// WithPublisherRetryConfig overrides the retry configuration.
func WithPublisherRetryConfig(rc RetryConfig) PublisherOption {
	return func(p *SitePublisher) {
		p.retryConfig = rc
	}
}

// CreateSite creates the task repository, commits the bundle, and enables
// Pages hosting. The settle wait gives the Pages build a head start before
// the completion notice advertises the URL.
func (p *SitePublisher) CreateSite(ctx context.Context, task string, bundle *domain.SiteBundle) (*domain.PublishResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	login, err := p.client.AuthenticatedLogin(ctx)
	if err != nil {
		return nil, err
	}

	repo := RepoName(p.cfg.RepoPrefix, task)
	description := fmt.Sprintf("Generated single-page application for task %s", task)

	if err := p.withRetry(ctx, "create_repo", func(ctx context.Context) error {
		return p.client.CreateRepo(ctx, repo, description)
	}); err != nil {
		return nil, err
	}

	files := []struct {
		path    string
		message string
		content string
	}{
		{constants.SiteFileName, constants.CommitMsgSite, bundle.HTML},
		{constants.ReadmeFileName, constants.CommitMsgReadme, bundle.Readme},
	}
	if bundle.HasLicense() {
		files = append(files, struct {
			path    string
			message string
			content string
		}{constants.LicenseFileName, constants.CommitMsgLicense, bundle.License})
	}

	for _, f := range files {
		if err := p.withRetry(ctx, "put_"+f.path, func(ctx context.Context) error {
			_, putErr := p.client.PutFile(ctx, login, repo, f.path, f.message, f.content, "")
			return putErr
		}); err != nil {
			return nil, err
		}
	}

	if err := p.withRetry(ctx, "enable_pages", func(ctx context.Context) error {
		return p.client.EnablePages(ctx, login, repo, constants.DefaultBranch)
	}); err != nil {
		return nil, err
	}

	if err := p.settle(ctx); err != nil {
		return nil, err
	}

	commitSHA, err := p.headSHA(ctx, login, repo)
	if err != nil {
		return nil, err
	}

	result := &domain.PublishResult{
		RepoURL:   RepoURL(login, repo),
		CommitSHA: commitSHA,
		PagesURL:  PagesURL(login, repo),
	}

	p.logger.Info().
		Str("task", task).
		Str("repo_url", result.RepoURL).
		Str("pages_url", result.PagesURL).
		Str("commit_sha", result.CommitSHA).
		Msg("site published")

	return result, nil
}

// ReviseSite replaces the page and README in the existing task repository.
// Each update carries the current blob SHA so the contents API performs an
// update rather than rejecting the write.
func (p *SitePublisher) ReviseSite(ctx context.Context, task string, bundle *domain.SiteBundle) (*domain.PublishResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	login, err := p.client.AuthenticatedLogin(ctx)
	if err != nil {
		return nil, err
	}

	repo := RepoName(p.cfg.RepoPrefix, task)

	files := []struct {
		path    string
		message string
		content string
	}{
		{constants.SiteFileName, constants.CommitMsgSiteRevision, bundle.HTML},
		{constants.ReadmeFileName, constants.CommitMsgReadmeRevision, bundle.Readme},
	}

	for _, f := range files {
		existing, getErr := p.client.GetFile(ctx, login, repo, f.path)
		sha := ""
		switch {
		case getErr == nil:
			sha = existing.SHA
		case errors.Is(getErr, pserrors.ErrFileNotFound):
			// A file the first round never produced is created fresh.
		default:
			return nil, getErr
		}

		if err := p.withRetry(ctx, "put_"+f.path, func(ctx context.Context) error {
			_, putErr := p.client.PutFile(ctx, login, repo, f.path, f.message, f.content, sha)
			return putErr
		}); err != nil {
			return nil, err
		}
	}

	if err := p.settle(ctx); err != nil {
		return nil, err
	}

	commitSHA, err := p.headSHA(ctx, login, repo)
	if err != nil {
		return nil, err
	}

	result := &domain.PublishResult{
		RepoURL:   RepoURL(login, repo),
		CommitSHA: commitSHA,
		PagesURL:  PagesURL(login, repo),
	}

	p.logger.Info().
		Str("task", task).
		Str("repo_url", result.RepoURL).
		Str("commit_sha", result.CommitSHA).
		Msg("site revision published")

	return result, nil
}

// CurrentSite fetches the task's current page content.
func (p *SitePublisher) CurrentSite(ctx context.Context, task string) (string, error) {
	login, err := p.client.AuthenticatedLogin(ctx)
	if err != nil {
		return "", err
	}

	repo := RepoName(p.cfg.RepoPrefix, task)
	file, err := p.client.GetFile(ctx, login, repo, constants.SiteFileName)
	if err != nil {
		return "", err
	}
	return file.Content, nil
}

// headSHA resolves the branch head after the settle wait. The completion
// notice reports this SHA rather than the one returned by the last file
// write, so it reflects whatever actually landed on the branch.
func (p *SitePublisher) headSHA(ctx context.Context, login, repo string) (string, error) {
	var sha string
	err := p.withRetry(ctx, "resolve_head", func(ctx context.Context) error {
		head, headErr := p.client.GetBranchHead(ctx, login, repo, constants.DefaultBranch)
		if headErr == nil {
			sha = head
		}
		return headErr
	})
	return sha, err
}

// settle waits for the Pages build to pick up the latest commit.
func (p *SitePublisher) settle(ctx context.Context) error {
	if p.cfg.PagesSettle <= 0 {
		return nil
	}
	return p.clock.Sleep(ctx, p.cfg.PagesSettle)
}

// withRetry runs one API operation under the publisher's retry policy.
// Terminal classifications (auth, conflict, not found) fail immediately.
func (p *SitePublisher) withRetry(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	op := &SimpleRetryOperation[struct{}]{
		AttemptFunc: func(ctx context.Context, _ int) (struct{}, bool, error) {
			err := fn(ctx)
			return struct{}{}, err == nil, err
		},
		ShouldRetryFunc: isTransient,
		OnRetryWaitFunc: func(attempt int, delay time.Duration) {
			p.logger.Warn().
				Str("operation", name).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("hub operation failed, will retry after backoff")
		},
	}

	_, attempts, err := ExecuteWithRetry(ctx, p.retryConfig, op, p.logger)
	if err == nil {
		return nil
	}

	switch ClassifyError(err) {
	case ErrorTypeAuth:
		err = fmt.Errorf("%w: %w", pserrors.ErrHubAuthFailed, err)
	case ErrorTypeRateLimit:
		err = fmt.Errorf("%w: %w", pserrors.ErrHubRateLimited, err)
	}

	if attempts >= p.retryConfig.MaxAttempts && isTransient(err) {
		err = fmt.Errorf("%w: %w", pserrors.ErrMaxRetriesExceeded, err)
	}

	p.logger.Error().
		Err(err).
		Str("operation", name).
		Int("attempts", attempts).
		Msg("hub operation failed")

	return err
}
