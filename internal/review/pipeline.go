package review

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sanix-darker/revu/internal/diffparse"
	"github.com/sanix-darker/revu/internal/event"
	"github.com/sanix-darker/revu/internal/provider"
	"github.com/sanix-darker/revu/internal/vcs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the terminal state of a pipeline run.
type State string

const (
	// StateUnsupported means the trigger event does not call for a review.
	StateUnsupported State = "unsupported_event"

	// StateSkipped means the run completed without submitting anything
	// (empty diff, everything filtered out, or no findings).
	StateSkipped State = "skipped"

	// StateSubmitted means one batched review was created on the PR.
	StateSubmitted State = "submitted"
)

// Options tunes a Pipeline.
type Options struct {
	// Exclude holds glob patterns for paths that must not be reviewed.
	Exclude []string

	// HunkWorkers bounds concurrent hunk reviews. Zero means the default
	// of 4; 1 gives strictly sequential processing.
	HunkWorkers int
}

// Result summarizes a completed run.
type Result struct {
	State   State
	Files   int
	Hunks   int
	Anchors int
}

// Pipeline drives one review run end to end: route the trigger event, fetch
// and parse the diff, filter it, review every hunk, and submit one batched
// review. Failures local to a file, hunk or finding degrade with a log line;
// failures that would compromise the submitted review are returned.
type Pipeline struct {
	platform  vcs.Platform
	requester *Requester
	opts      Options
	logger    *zap.Logger
}

// NewPipeline wires a Pipeline from its collaborators.
func NewPipeline(platform vcs.Platform, ai provider.AIProvider, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.HunkWorkers <= 0 {
		opts.HunkWorkers = 4
	}
	return &Pipeline{
		platform:  platform,
		requester: NewRequester(ai, logger),
		opts:      opts,
		logger:    logger,
	}
}

// Run executes one review run for the given trigger payload.
func (p *Pipeline) Run(ctx context.Context, payload *event.Payload) (*Result, error) {
	trigger := payload.Trigger()
	if trigger == event.TriggerUnsupported {
		p.logger.Info("unsupported event action, nothing to review",
			zap.String("action", payload.Action))
		return &Result{State: StateUnsupported}, nil
	}

	repo := payload.Repo()
	number := payload.PullNumber()
	if repo == "" || number <= 0 {
		return nil, fmt.Errorf("pipeline: event payload is missing repository or pull request number")
	}

	pr, err := p.platform.FetchPullRequest(ctx, repo, number)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	rawDiff, err := p.fetchDiff(ctx, repo, number, trigger, payload)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if strings.TrimSpace(rawDiff) == "" {
		p.logger.Info("empty diff, nothing to review", zap.String("trigger", trigger.String()))
		return &Result{State: StateSkipped}, nil
	}

	changes := diffparse.Parse(rawDiff)
	changes = diffparse.FilterTextChanges(changes)
	changes = diffparse.ExcludeChanges(changes, p.opts.Exclude)
	if len(changes) == 0 {
		p.logger.Info("no reviewable files after filtering")
		return &Result{State: StateSkipped}, nil
	}

	prCtx := PRContext{
		Owner:       payload.Repository.Owner.Login,
		Repo:        payload.Repository.Name,
		Number:      number,
		Title:       pr.Title,
		Description: pr.Description,
		HeadSHA:     pr.HeadSHA,
	}

	cache := NewFileCache(func(ctx context.Context, path string) (string, error) {
		return p.platform.FetchFileContent(ctx, repo, path, pr.HeadSHA)
	}, p.logger)

	anchors, hunks := p.reviewChanges(ctx, prCtx, changes, cache)

	result := &Result{
		State:   StateSkipped,
		Files:   len(changes),
		Hunks:   hunks,
		Anchors: len(anchors),
	}
	if len(anchors) == 0 {
		p.logger.Info("no findings, skipping review submission")
		return result, nil
	}

	comments := make([]vcs.ReviewComment, len(anchors))
	for i, a := range anchors {
		comments[i] = vcs.ReviewComment{Path: a.Path, Line: a.Line, Body: a.Body}
	}
	if err := p.platform.CreateReview(ctx, repo, number, pr.HeadSHA, comments); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	result.State = StateSubmitted
	p.logger.Info("review submitted",
		zap.Int("files", result.Files),
		zap.Int("hunks", result.Hunks),
		zap.Int("comments", result.Anchors))
	return result, nil
}

func (p *Pipeline) fetchDiff(ctx context.Context, repo string, number int, trigger event.Trigger, payload *event.Payload) (string, error) {
	if trigger == event.TriggerCompareDiff {
		return p.platform.FetchCompareDiff(ctx, repo, payload.Before, payload.After)
	}
	return p.platform.FetchPullRequestDiff(ctx, repo, number)
}

// reviewChanges runs the prompt-request-project loop for every hunk under a
// bounded worker pool. Anchor order across hunks is not significant; the
// batched review treats them as a set.
func (p *Pipeline) reviewChanges(
	ctx context.Context,
	prCtx PRContext,
	changes []diffparse.FileChange,
	cache *FileCache,
) ([]CommentAnchor, int) {
	var (
		mu      sync.Mutex
		anchors []CommentAnchor
		hunks   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.HunkWorkers)

	for _, fc := range changes {
		fc := fc
		hunks += len(fc.Hunks)
		for _, h := range fc.Hunks {
			h := h
			g.Go(func() error {
				content := cache.Get(gctx, fc.NewName)
				prompt := BuildHunkPrompt(prCtx, fc, h, content)
				findings := p.requester.Review(gctx, prompt)
				projected := ProjectFindings(fc, findings, p.logger)
				if len(projected) == 0 {
					return nil
				}
				mu.Lock()
				anchors = append(anchors, projected...)
				mu.Unlock()
				return nil
			})
		}
	}

	// Workers degrade on failure instead of returning errors.
	_ = g.Wait()

	return anchors, hunks
}
