// Package hub publishes generated site bundles to a GitHub repository
// with Pages hosting enabled.
//
// The package is split into a low-level REST client (APIClient) and a
// high-level Publisher that sequences repository creation, file commits,
// and Pages activation for the deploy pipeline.
package hub

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/pagesmith/internal/domain"
)

// Publisher sequences the hosting-side operations for a deploy round.
type Publisher interface {
	// CreateSite creates a fresh repository for the task, commits the
	// bundle, and enables Pages hosting. Returns ErrRepoExists when the
	// repository already exists.
	CreateSite(ctx context.Context, task string, bundle *domain.SiteBundle) (*domain.PublishResult, error)

	// ReviseSite updates the existing repository for the task with the
	// revised bundle. Returns ErrRepoNotFound when no repository exists.
	ReviseSite(ctx context.Context, task string, bundle *domain.SiteBundle) (*domain.PublishResult, error)

	// CurrentSite fetches the current page content for the task so a
	// revision prompt can embed it.
	CurrentSite(ctx context.Context, task string) (string, error)
}

// RepoName derives the repository name for a task. The task identifier
// is lowercased and non URL-safe runes are replaced so the name is valid
// as both a repository name and a Pages subpath.
func RepoName(prefix, task string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, task)
	return fmt.Sprintf("%s-%s", prefix, sanitized)
}

// PagesURL builds the public Pages URL for a repository owned by login.
func PagesURL(login, repo string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", login, repo)
}

// RepoURL builds the canonical repository URL.
func RepoURL(login, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s", login, repo)
}
