// Package builds runs one lintly build end to end: parse the linter output,
// relate the violations to the pull request diff, publish a review, and
// decide whether the build passes.
package builds

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/23andMe/lintly/api/schemas"
	"github.com/23andMe/lintly/internal/backends"
	"github.com/23andMe/lintly/internal/config"
	"github.com/23andMe/lintly/internal/formatters"
	"github.com/23andMe/lintly/internal/parsers"
	"github.com/23andMe/lintly/internal/patch"
)

// Build executes one review run against one pull request.
type Build struct {
	id      string
	cfg     *config.Config
	backend backends.Backend
	logger  *zap.Logger
}

// Result summarizes what a build found and did.
type Result struct {
	BuildID string

	// Violations holds everything the parser found.
	Violations schemas.FileViolations

	// InDiff counts the violations that sit on lines this PR added.
	InDiff int

	// DeletedStale counts removed comments from earlier runs.
	DeletedStale int

	// Failed is the fail-on policy verdict.
	Failed bool
}

// New creates a build with a fresh build ID.
func New(cfg *config.Config, backend backends.Backend, logger *zap.Logger) *Build {
	id := uuid.New().String()
	return &Build{
		id:      id,
		cfg:     cfg,
		backend: backend,
		logger:  logger.Named("build").With(zap.String("build_id", id)),
	}
}

// Execute runs the build. A non-nil Result is returned even on failure paths
// that occur after parsing, so callers can still report partial findings.
func (b *Build) Execute(ctx context.Context, linterOutput string) (*Result, error) {
	parser, err := parsers.Lookup(b.cfg.Review.Format)
	if err != nil {
		return nil, err
	}

	violations, err := parser.Parse(linterOutput)
	if err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", b.cfg.Review.Format, err)
	}

	result := &Result{BuildID: b.id, Violations: violations}
	b.logger.Info("parsed linter output",
		zap.String("format", b.cfg.Review.Format),
		zap.Int("violations", violations.Total()),
		zap.Int("files", len(violations.Paths())))

	if b.cfg.Review.PostStatus {
		pending := backends.CommitStatus{
			State:       backends.StatusPending,
			Description: "Lintly is reviewing this pull request",
		}
		if err := b.backend.PostCommitStatus(ctx, pending); err != nil {
			return result, err
		}
	}

	if err := b.publish(ctx, result); err != nil {
		b.reportErrorStatus(ctx)
		return result, err
	}

	result.Failed = b.verdict(result)
	if b.cfg.Review.PostStatus {
		if err := b.backend.PostCommitStatus(ctx, b.finalStatus(result)); err != nil {
			return result, err
		}
	}

	return result, nil
}

// publish fetches the diff, splits violations into inline and body sections,
// clears stale comments, and posts the review.
func (b *Build) publish(ctx context.Context, result *Result) error {
	diffText, err := b.backend.PullRequestDiff(ctx)
	if err != nil {
		return err
	}
	pr, err := patch.Parse(diffText)
	if err != nil {
		return err
	}

	var comments []backends.ReviewComment
	outside := schemas.FileViolations{}
	for _, path := range result.Violations.Paths() {
		for _, v := range result.Violations[path] {
			if pos, ok := pr.Position(path, v.Line); ok {
				comments = append(comments, backends.ReviewComment{
					Path:     path,
					Position: pos,
					Body:     formatters.InlineComment(v),
				})
			} else {
				outside.Add(path, v)
			}
		}
	}
	result.InDiff = len(comments)

	deleted, err := b.backend.DeleteStaleReviewComments(ctx, formatters.CommentMarker)
	if err != nil {
		return err
	}
	result.DeletedStale = deleted

	total := result.Violations.Total()
	if total == 0 {
		b.logger.Info("no violations found, skipping review")
		return nil
	}

	review := backends.Review{
		Body:           formatters.ReviewBody(total, outside),
		RequestChanges: b.cfg.Review.RequestChanges,
		Comments:       comments,
	}
	return b.backend.CreateReview(ctx, review)
}

// verdict applies the fail-on policy.
func (b *Build) verdict(result *Result) bool {
	switch b.cfg.Review.FailOn {
	case config.FailOnAny:
		return result.Violations.Total() > 0
	default: // config.FailOnNew
		return result.InDiff > 0
	}
}

func (b *Build) finalStatus(result *Result) backends.CommitStatus {
	state := backends.StatusSuccess
	if result.Failed {
		state = backends.StatusFailure
	}
	return backends.CommitStatus{
		State:       state,
		Description: formatters.StatusDescription(result.Violations.Total()),
	}
}

// reportErrorStatus marks the commit errored after a publishing failure.
// Best effort: the original error is what the caller surfaces.
func (b *Build) reportErrorStatus(ctx context.Context) {
	if !b.cfg.Review.PostStatus {
		return
	}
	status := backends.CommitStatus{
		State:       backends.StatusError,
		Description: "Lintly hit an error while reviewing",
	}
	if err := b.backend.PostCommitStatus(ctx, status); err != nil {
		b.logger.Warn("failed to post error status", zap.Error(err))
	}
}
