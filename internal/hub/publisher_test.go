package hub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/pagesmith/internal/config"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// fakeClock records settle waits without sleeping.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return nil
}

func testBundle() *domain.SiteBundle {
	return &domain.SiteBundle{
		HTML:    "<html><body>hi</body></html>",
		Readme:  "# Demo",
		License: "MIT License",
	}
}

func newTestPublisher(t *testing.T, cfg *config.HubConfig, doer Doer) (*SitePublisher, *fakeClock) {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	client := NewAPIClient(cfg, WithAPIDoer(doer), WithAPIToken("ghp_test"))
	pub := NewSitePublisher(cfg, client,
		WithPublisherClock(clk),
		WithPublisherRetryConfig(RetryConfig{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			Multiplier:   1.0,
		}),
	)
	return pub, clk
}

// TestCreateSite tests the full create-round publish sequence.
func TestCreateSite(t *testing.T) {
	cfg := testHubConfig()
	cfg.PagesSettle = 5 * time.Second

	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodPost, "/user/repos", apiResponse(http.StatusCreated, `{}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-html"}}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/README.md",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-readme"}}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/LICENSE",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-license"}}`))
	doer.on(http.MethodPost, "/repos/octocat/pagesmith-demo/pages",
		apiResponse(http.StatusCreated, `{"status":"building"}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/branches/main",
		apiResponse(http.StatusOK, `{"commit":{"sha":"head-sha"}}`))

	pub, clk := newTestPublisher(t, cfg, doer)

	result, err := pub.CreateSite(context.Background(), "demo", testBundle())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "https://github.com/octocat/pagesmith-demo", result.RepoURL)
	assert.Equal(t, "https://octocat.github.io/pagesmith-demo/", result.PagesURL)
	assert.Equal(t, "head-sha", result.CommitSHA)

	// One settle wait after enabling pages, before the head resolves
	require.Len(t, clk.sleeps, 1)
	assert.Equal(t, 5*time.Second, clk.sleeps[0])

	// Seven API calls: user, repo create, three file commits, pages, head
	assert.Len(t, doer.requests, 7)
}

// TestCreateSiteWithoutLicense verifies only two files are committed when
// the bundle carries no license.
func TestCreateSiteWithoutLicense(t *testing.T) {
	cfg := testHubConfig()

	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodPost, "/user/repos", apiResponse(http.StatusCreated, `{}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-html"}}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/README.md",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-readme"}}`))
	doer.on(http.MethodPost, "/repos/octocat/pagesmith-demo/pages",
		apiResponse(http.StatusCreated, `{}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/branches/main",
		apiResponse(http.StatusOK, `{"commit":{"sha":"head-sha"}}`))

	pub, clk := newTestPublisher(t, cfg, doer)

	bundle := testBundle()
	bundle.License = ""

	result, err := pub.CreateSite(context.Background(), "demo", bundle)
	require.NoError(t, err)
	assert.Equal(t, "head-sha", result.CommitSHA)
	assert.Empty(t, clk.sleeps)
	assert.Len(t, doer.requests, 6)
}

// TestCreateSiteRepoExists verifies an existing repository is a terminal
// conflict, not retried.
func TestCreateSiteRepoExists(t *testing.T) {
	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodPost, "/user/repos",
		apiResponse(http.StatusUnprocessableEntity, `{"message":"name already exists on this account"}`))

	pub, _ := newTestPublisher(t, testHubConfig(), doer)

	result, err := pub.CreateSite(context.Background(), "demo", testBundle())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, pserrors.ErrRepoExists)
	assert.Len(t, doer.requests, 2)
}

// TestCreateSiteRetriesTransient verifies a transient server failure is
// retried until success.
func TestCreateSiteRetriesTransient(t *testing.T) {
	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodPost, "/user/repos", apiResponse(http.StatusBadGateway, "bad gateway"))
	doer.on(http.MethodPost, "/user/repos", apiResponse(http.StatusCreated, `{}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-html"}}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/README.md",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-readme"}}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/LICENSE",
		apiResponse(http.StatusCreated, `{"commit":{"sha":"sha-license"}}`))
	doer.on(http.MethodPost, "/repos/octocat/pagesmith-demo/pages",
		apiResponse(http.StatusCreated, `{}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/branches/main",
		apiResponse(http.StatusOK, `{"commit":{"sha":"head-sha"}}`))

	pub, _ := newTestPublisher(t, testHubConfig(), doer)

	result, err := pub.CreateSite(context.Background(), "demo", testBundle())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, doer.requests, 8)
}

// TestCreateSiteAuthFailure verifies auth failures map to ErrHubAuthFailed.
func TestCreateSiteAuthFailure(t *testing.T) {
	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodPost, "/user/repos", apiResponse(http.StatusUnauthorized, `{"message":"Bad credentials"}`))

	pub, _ := newTestPublisher(t, testHubConfig(), doer)

	_, err := pub.CreateSite(context.Background(), "demo", testBundle())
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrHubAuthFailed)
}

// TestReviseSite tests the revision publish sequence with blob SHAs.
func TestReviseSite(t *testing.T) {
	cfg := testHubConfig()
	cfg.PagesSettle = 2 * time.Second

	htmlContent := base64.StdEncoding.EncodeToString([]byte("<html>v1</html>"))
	readmeContent := base64.StdEncoding.EncodeToString([]byte("# v1"))

	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusOK, fmt.Sprintf(`{"content":%q,"encoding":"base64","sha":"old-html"}`, htmlContent)))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusOK, `{"commit":{"sha":"new-html"}}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/contents/README.md",
		apiResponse(http.StatusOK, fmt.Sprintf(`{"content":%q,"encoding":"base64","sha":"old-readme"}`, readmeContent)))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/README.md",
		apiResponse(http.StatusOK, `{"commit":{"sha":"new-readme"}}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/branches/main",
		apiResponse(http.StatusOK, `{"commit":{"sha":"head-sha"}}`))

	pub, clk := newTestPublisher(t, cfg, doer)

	bundle := testBundle()
	bundle.License = ""

	result, err := pub.ReviseSite(context.Background(), "demo", bundle)
	require.NoError(t, err)
	assert.Equal(t, "head-sha", result.CommitSHA)
	assert.Equal(t, "https://octocat.github.io/pagesmith-demo/", result.PagesURL)
	require.Len(t, clk.sleeps, 1)

	// Both updates must carry the current blob SHA
	var htmlPut map[string]any
	require.NoError(t, json.Unmarshal([]byte(doer.bodies[2]), &htmlPut))
	assert.Equal(t, "old-html", htmlPut["sha"])

	var readmePut map[string]any
	require.NoError(t, json.Unmarshal([]byte(doer.bodies[4]), &readmePut))
	assert.Equal(t, "old-readme", readmePut["sha"])
}

// TestReviseSiteRepoMissing verifies revising a never-created task maps to
// ErrRepoNotFound.
func TestReviseSiteRepoMissing(t *testing.T) {
	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))

	pub, _ := newTestPublisher(t, testHubConfig(), doer)

	_, err := pub.ReviseSite(context.Background(), "demo", testBundle())
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrRepoNotFound)

	// The missing repo is terminal, so nothing past the existence
	// check goes out: user lookup, contents read, repo check.
	assert.Len(t, doer.requests, 3)
}

// TestReviseSiteCreatesMissingFile verifies a file absent from round one is
// created fresh rather than failing the revision.
func TestReviseSiteCreatesMissingFile(t *testing.T) {
	htmlContent := base64.StdEncoding.EncodeToString([]byte("<html>v1</html>"))

	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusOK, fmt.Sprintf(`{"content":%q,"encoding":"base64","sha":"old-html"}`, htmlContent)))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusOK, `{"commit":{"sha":"new-html"}}`))
	// README.md 404s but the repo probe succeeds
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo", apiResponse(http.StatusOK, `{"name":"pagesmith-demo"}`))
	doer.on(http.MethodPut, "/repos/octocat/pagesmith-demo/contents/README.md",
		apiResponse(http.StatusOK, `{"commit":{"sha":"new-readme"}}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/branches/main",
		apiResponse(http.StatusOK, `{"commit":{"sha":"head-sha"}}`))

	pub, _ := newTestPublisher(t, testHubConfig(), doer)

	bundle := testBundle()
	bundle.License = ""

	result, err := pub.ReviseSite(context.Background(), "demo", bundle)
	require.NoError(t, err)
	assert.Equal(t, "head-sha", result.CommitSHA)
}

// TestCurrentSite tests fetching the existing page for a revision prompt.
func TestCurrentSite(t *testing.T) {
	htmlContent := base64.StdEncoding.EncodeToString([]byte("<html>current</html>"))

	doer := newRouteDoer()
	doer.on(http.MethodGet, "/user", apiResponse(http.StatusOK, `{"login":"octocat"}`))
	doer.on(http.MethodGet, "/repos/octocat/pagesmith-demo/contents/index.html",
		apiResponse(http.StatusOK, fmt.Sprintf(`{"content":%q,"encoding":"base64","sha":"abc"}`, htmlContent)))

	pub, _ := newTestPublisher(t, testHubConfig(), doer)

	html, err := pub.CurrentSite(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "<html>current</html>", html)
}

// TestCreateSiteCanceledContext tests the entry cancellation check.
func TestCreateSiteCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doer := newRouteDoer()
	pub, _ := newTestPublisher(t, testHubConfig(), doer)

	_, err := pub.CreateSite(ctx, "demo", testBundle())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, doer.requests)
}
