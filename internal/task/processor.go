// This file implements the deploy pipeline that runs for each accepted
// request: synthesize, publish, notify, with the record tracking every
// status transition.
package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/clock"
	"github.com/mrz1836/pagesmith/internal/constants"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
	"github.com/mrz1836/pagesmith/internal/hub"
	"github.com/mrz1836/pagesmith/internal/llm"
)

// Processor runs the deploy pipeline for one request at a time.
// It is safe for concurrent use; per-task serialization is handled by the
// record store's file locks.
type Processor struct {
	store      Store
	generator  llm.Generator
	publisher  hub.Publisher
	notifier   Notifier
	clock      clock.Clock
	logger     zerolog.Logger
	repoPrefix string

	// newRunID generates the correlation ID for a pipeline run.
	newRunID func() string
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// NewProcessor wires the pipeline stages together.
func NewProcessor(
	store Store,
	generator llm.Generator,
	publisher hub.Publisher,
	notifier Notifier,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		store:      store,
		generator:  generator,
		publisher:  publisher,
		notifier:   notifier,
		clock:      clock.RealClock{},
		logger:     zerolog.Nop(),
		repoPrefix: constants.DefaultRepoPrefix,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithProcessorLogger sets the logger for pipeline runs.
func WithProcessorLogger(logger zerolog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithProcessorClock sets the clock used for record timestamps (for testing).
func WithProcessorClock(c clock.Clock) ProcessorOption {
	return func(p *Processor) {
		p.clock = c
	}
}

// WithProcessorRepoPrefix sets the repository name prefix.
func WithProcessorRepoPrefix(prefix string) ProcessorOption {
	return func(p *Processor) {
		p.repoPrefix = prefix
	}
}

// WithProcessorRunID sets the run ID generator (for testing).
func WithProcessorRunID(fn func() string) ProcessorOption {
	return func(p *Processor) {
		p.newRunID = fn
	}
}

// Process executes the full pipeline for an accepted deploy request.
// Every status transition is persisted to the task's deploy record so
// operators can inspect progress and failures after the fact.
func (p *Processor) Process(ctx context.Context, req *domain.DeployRequest) error {
	runID := p.newRunID()
	logger := p.logger.With().
		Str("run_id", runID).
		Str("task", req.Task).
		Int("round", req.Round).
		Logger()

	logger.Info().Str("email", logSafeEmail(req.Email)).Msg("deploy run started")

	record, err := p.openRecord(ctx, req, runID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open deploy record")
		return err
	}

	result, err := p.run(ctx, req, record, &logger)
	if err != nil {
		p.closeRound(ctx, record, constants.StatusFailed, "", err)
		logger.Error().Err(err).Msg("deploy run failed")
		return err
	}

	record.RepoURL = result.RepoURL
	record.PagesURL = result.PagesURL
	p.closeRound(ctx, record, constants.StatusCompleted, result.CommitSHA, nil)

	logger.Info().
		Str("repo_url", result.RepoURL).
		Str("pages_url", result.PagesURL).
		Str("commit_sha", result.CommitSHA).
		Msg("deploy run completed")

	return nil
}

// run executes the generate, publish, and notify stages.
func (p *Processor) run(
	ctx context.Context,
	req *domain.DeployRequest,
	record *domain.DeployRecord,
	logger *zerolog.Logger,
) (*domain.PublishResult, error) {
	p.setStatus(ctx, record, constants.StatusGenerating)

	genOpts := []llm.RequestOption{
		llm.WithChecks(req.Checks),
		llm.WithAttachments(req.Attachments),
	}

	if req.IsRevision() {
		existing, err := p.publisher.CurrentSite(ctx, req.Task)
		if err != nil {
			return nil, pserrors.Wrap(err, "failed to fetch current site for revision")
		}
		genOpts = append(genOpts, llm.WithExistingHTML(existing))
	}

	bundle, err := p.generator.Generate(ctx, llm.NewRequest(req.Brief, genOpts...))
	if err != nil {
		return nil, pserrors.Wrap(err, "site generation failed")
	}

	logger.Debug().
		Int("html_bytes", len(bundle.HTML)).
		Bool("has_license", bundle.HasLicense()).
		Msg("site bundle ready")

	p.setStatus(ctx, record, constants.StatusPublishing)

	var result *domain.PublishResult
	if req.IsRevision() {
		result, err = p.publisher.ReviseSite(ctx, req.Task, bundle)
	} else {
		result, err = p.publisher.CreateSite(ctx, req.Task, bundle)
	}
	if err != nil {
		return nil, pserrors.Wrap(err, "site publishing failed")
	}

	p.setStatus(ctx, record, constants.StatusNotifying)

	notice := domain.NoticeFor(req, result)
	if err := p.notifier.Notify(ctx, req.EvaluationURL, notice); err != nil {
		// The site is live; surface the delivery failure with its URLs
		// so the record still points at the published artifacts.
		record.RepoURL = result.RepoURL
		record.PagesURL = result.PagesURL
		return nil, err
	}

	return result, nil
}

// openRecord loads or creates the task's deploy record and appends the
// pending round entry for this run.
func (p *Processor) openRecord(ctx context.Context, req *domain.DeployRequest, runID string) (*domain.DeployRecord, error) {
	record, err := p.store.Get(ctx, req.Task)
	if errors.Is(err, pserrors.ErrRecordNotFound) {
		record = domain.NewDeployRecord(req.Task, hub.RepoName(p.repoPrefix, req.Task), p.clock.Now())
		if createErr := p.store.Create(ctx, record); createErr != nil {
			return nil, createErr
		}
	} else if err != nil {
		return nil, err
	}

	record.Rounds = append(record.Rounds, domain.RoundResult{
		Round:     req.Round,
		RunID:     runID,
		Status:    constants.StatusPending,
		StartedAt: p.clock.Now(),
	})

	if err := p.store.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// setStatus advances the current round's status and persists the record.
// Persistence failures are logged but do not abort the pipeline.
func (p *Processor) setStatus(ctx context.Context, record *domain.DeployRecord, status constants.DeployStatus) {
	round := record.LatestRound()
	if round == nil {
		return
	}
	round.Status = status

	if err := p.store.Update(ctx, record); err != nil {
		p.logger.Warn().
			Err(err).
			Str("task", record.Task).
			Str("status", string(status)).
			Msg("failed to persist status transition")
	}
}

// closeRound finalizes the current round with a terminal status.
func (p *Processor) closeRound(ctx context.Context, record *domain.DeployRecord, status constants.DeployStatus, commitSHA string, runErr error) {
	round := record.LatestRound()
	if round == nil {
		return
	}

	round.Status = status
	round.CommitSHA = commitSHA
	round.CompletedAt = p.clock.Now()
	if runErr != nil {
		round.Error = runErr.Error()
	}

	// Use a fresh context so a canceled run can still record its outcome
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	if err := p.store.Update(ctx, record); err != nil {
		p.logger.Warn().
			Err(err).
			Str("task", record.Task).
			Str("status", string(status)).
			Msg("failed to persist round outcome")
	}
}

// logSafeEmail masks the local part of an email for log output.
func logSafeEmail(email string) string {
	for i, r := range email {
		if r == '@' {
			if i <= 2 {
				return "***" + email[i:]
			}
			return email[:2] + "***" + email[i:]
		}
	}
	return "***"
}
