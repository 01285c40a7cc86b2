// Package github implements the backends.Backend interface on the GitHub
// REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v58/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/23andMe/lintly/internal/backends"
)

// deleteConcurrency bounds parallel comment deletions so a chatty PR doesn't
// burn through the API quota in one burst.
const deleteConcurrency = 4

// Client talks to one pull request of one repository.
type Client struct {
	gh     *github.Client
	owner  string
	repo   string
	pr     int
	sha    string
	logger *zap.Logger
}

// Options configures a Client.
type Options struct {
	// Token is a personal access token or installation token. Required for
	// posting; the diff of a public PR can be fetched without it.
	Token string

	// Repo is the "owner/name" slug.
	Repo string

	// PR is the pull request number.
	PR int

	// CommitSHA is the PR head commit statuses are attached to.
	CommitSHA string

	// BaseURL overrides the API endpoint, for GitHub Enterprise installs.
	BaseURL string

	// HTTPClient overrides the transport. Tests inject an httpmock-backed
	// client here.
	HTTPClient *http.Client
}

// New validates the options and builds a Client.
func New(opts Options, logger *zap.Logger) (*Client, error) {
	owner, name, ok := strings.Cut(opts.Repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("repo must be an owner/name slug, got %q", opts.Repo)
	}
	if opts.PR <= 0 {
		return nil, fmt.Errorf("pull request number must be positive, got %d", opts.PR)
	}

	gh := github.NewClient(opts.HTTPClient)
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("setting GitHub base URL: %w", err)
		}
	}

	return &Client{
		gh:     gh,
		owner:  owner,
		repo:   name,
		pr:     opts.PR,
		sha:    opts.CommitSHA,
		logger: logger.Named("github"),
	}, nil
}

// PullRequestDiff fetches the PR's unified diff using the diff media type.
func (c *Client) PullRequestDiff(ctx context.Context) (string, error) {
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, c.owner, c.repo, c.pr,
		github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("fetching diff for %s/%s#%d: %w", c.owner, c.repo, c.pr, err)
	}
	return diff, nil
}

// CreateReview posts the review. Reviews with no body and no comments are
// skipped; GitHub rejects empty reviews.
func (c *Client) CreateReview(ctx context.Context, review backends.Review) error {
	if review.Body == "" && len(review.Comments) == 0 {
		return nil
	}

	event := "COMMENT"
	if review.RequestChanges {
		event = "REQUEST_CHANGES"
	}

	comments := make([]*github.DraftReviewComment, 0, len(review.Comments))
	for _, rc := range review.Comments {
		comments = append(comments, &github.DraftReviewComment{
			Path:     github.String(rc.Path),
			Position: github.Int(rc.Position),
			Body:     github.String(rc.Body),
		})
	}

	req := &github.PullRequestReviewRequest{
		CommitID: github.String(c.sha),
		Body:     github.String(review.Body),
		Event:    github.String(event),
		Comments: comments,
	}

	c.logger.Info("posting pull request review",
		zap.Int("pr", c.pr),
		zap.Int("inline_comments", len(comments)),
		zap.String("event", event))

	if _, _, err := c.gh.PullRequests.CreateReview(ctx, c.owner, c.repo, c.pr, req); err != nil {
		return fmt.Errorf("creating review on %s/%s#%d: %w", c.owner, c.repo, c.pr, err)
	}
	return nil
}

// DeleteStaleReviewComments removes review comments from previous runs,
// recognized by the marker in their body. Deletions run concurrently.
func (c *Client) DeleteStaleReviewComments(ctx context.Context, marker string) (int, error) {
	var stale []int64

	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, c.owner, c.repo, c.pr, opts)
		if err != nil {
			return 0, fmt.Errorf("listing review comments on %s/%s#%d: %w", c.owner, c.repo, c.pr, err)
		}
		for _, comment := range comments {
			if strings.Contains(comment.GetBody(), marker) {
				stale = append(stale, comment.GetID())
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(stale) == 0 {
		return 0, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, id := range stale {
		g.Go(func() error {
			if _, err := c.gh.PullRequests.DeleteComment(ctx, c.owner, c.repo, id); err != nil {
				return fmt.Errorf("deleting review comment %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	c.logger.Info("deleted stale review comments", zap.Int("count", len(stale)))
	return len(stale), nil
}

// PostCommitStatus attaches a status to the PR head commit under the
// "Lintly" context.
func (c *Client) PostCommitStatus(ctx context.Context, status backends.CommitStatus) error {
	if c.sha == "" {
		return fmt.Errorf("cannot post commit status: no commit SHA configured")
	}

	repoStatus := &github.RepoStatus{
		State:       github.String(string(status.State)),
		Description: github.String(status.Description),
		Context:     github.String("Lintly"),
	}
	if status.TargetURL != "" {
		repoStatus.TargetURL = github.String(status.TargetURL)
	}

	if _, _, err := c.gh.Repositories.CreateStatus(ctx, c.owner, c.repo, c.sha, repoStatus); err != nil {
		return fmt.Errorf("posting %s status on %s: %w", status.State, c.sha, err)
	}
	return nil
}
