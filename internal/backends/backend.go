// Package backends defines the contract between a build and the git hosting
// service it reports to. GitHub is the only implementation; the interface
// exists so builds can be tested against a fake and so another host could be
// added without touching the build logic.
package backends

import "context"

// StatusState is a commit status value accepted by the hosting service.
type StatusState string

// Commit status states, matching the GitHub status API vocabulary.
const (
	StatusPending StatusState = "pending"
	StatusSuccess StatusState = "success"
	StatusFailure StatusState = "failure"
	StatusError   StatusState = "error"
)

// ReviewComment is one inline comment, anchored at a diff position.
type ReviewComment struct {
	Path     string
	Position int
	Body     string
}

// Review is a complete pull request review: an overall body plus inline
// comments. RequestChanges controls whether the review blocks the PR or is
// informational.
type Review struct {
	Body           string
	RequestChanges bool
	Comments       []ReviewComment
}

// CommitStatus is a status check result attached to the PR's head commit.
type CommitStatus struct {
	State       StatusState
	Description string
	TargetURL   string
}

// Backend is the hosting-service surface a build needs.
type Backend interface {
	// PullRequestDiff returns the PR's unified diff text.
	PullRequestDiff(ctx context.Context) (string, error)

	// CreateReview posts a review on the PR.
	CreateReview(ctx context.Context, review Review) error

	// DeleteStaleReviewComments removes previously posted comments whose
	// body contains the given marker, returning how many were deleted.
	DeleteStaleReviewComments(ctx context.Context, marker string) (int, error)

	// PostCommitStatus sets a status on the PR's head commit.
	PostCommitStatus(ctx context.Context, status CommitStatus) error
}
