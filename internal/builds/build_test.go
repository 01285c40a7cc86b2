package builds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/23andMe/lintly/internal/backends"
	"github.com/23andMe/lintly/internal/config"
	"github.com/23andMe/lintly/internal/formatters"
)

// fakeBackend records every call a build makes.
type fakeBackend struct {
	diff        string
	diffErr     error
	staleCount  int
	reviews     []backends.Review
	statuses    []backends.CommitStatus
	reviewErr   error
	deleteCalls int
}

func (f *fakeBackend) PullRequestDiff(context.Context) (string, error) {
	return f.diff, f.diffErr
}

func (f *fakeBackend) CreateReview(_ context.Context, review backends.Review) error {
	if f.reviewErr != nil {
		return f.reviewErr
	}
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeBackend) DeleteStaleReviewComments(context.Context, string) (int, error) {
	f.deleteCalls++
	return f.staleCount, nil
}

func (f *fakeBackend) PostCommitStatus(_ context.Context, status backends.CommitStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

const prDiff = `diff --git a/app.py b/app.py
index 83db48f..bf269f4 100644
--- a/app.py
+++ b/app.py
@@ -1,2 +1,4 @@
 import os
+import sys
+x=1
 print(os.name)
`

// flake8 output: two violations on added lines, one on an untouched line of
// another file.
const flakeOutput = `app.py:2:1: F401 'sys' imported but unused
app.py:3:2: E225 missing whitespace around operator
lib/util.py:10:1: E302 expected 2 blank lines, found 1`

func testConfig(failOn string, postStatus bool) *config.Config {
	return &config.Config{
		Review: config.ReviewConfig{
			Format:     "flake8",
			FailOn:     failOn,
			PostStatus: postStatus,
		},
	}
}

func TestExecute_SplitsInlineAndOutside(t *testing.T) {
	backend := &fakeBackend{diff: prDiff, staleCount: 2}
	build := New(testConfig(config.FailOnNew, true), backend, zap.NewNop())

	result, err := build.Execute(context.Background(), flakeOutput)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Violations.Total())
	assert.Equal(t, 2, result.InDiff)
	assert.Equal(t, 2, result.DeletedStale)
	assert.True(t, result.Failed)
	assert.Equal(t, 1, backend.deleteCalls)

	require.Len(t, backend.reviews, 1)
	review := backend.reviews[0]
	require.Len(t, review.Comments, 2)
	assert.Equal(t, "app.py", review.Comments[0].Path)
	assert.Equal(t, 2, review.Comments[0].Position)
	assert.Equal(t, 3, review.Comments[1].Position)
	assert.Contains(t, review.Comments[0].Body, "F401")
	assert.Contains(t, review.Body, "lib/util.py", "untouched-line violation goes into the body")
	assert.Contains(t, review.Body, formatters.CommentMarker)
}

func TestExecute_StatusLifecycle(t *testing.T) {
	backend := &fakeBackend{diff: prDiff}
	build := New(testConfig(config.FailOnNew, true), backend, zap.NewNop())

	result, err := build.Execute(context.Background(), flakeOutput)
	require.NoError(t, err)
	require.True(t, result.Failed)

	require.Len(t, backend.statuses, 2)
	assert.Equal(t, backends.StatusPending, backend.statuses[0].State)
	assert.Equal(t, backends.StatusFailure, backend.statuses[1].State)
	assert.Equal(t, "Lintly found 3 issues", backend.statuses[1].Description)
}

func TestExecute_NoViolations(t *testing.T) {
	backend := &fakeBackend{diff: prDiff}
	build := New(testConfig(config.FailOnNew, true), backend, zap.NewNop())

	result, err := build.Execute(context.Background(), "")
	require.NoError(t, err)

	assert.False(t, result.Failed)
	assert.Empty(t, backend.reviews, "no review is posted for a clean run")
	require.Len(t, backend.statuses, 2)
	assert.Equal(t, backends.StatusSuccess, backend.statuses[1].State)
	assert.Equal(t, "Lintly found no issues", backend.statuses[1].Description)
}

func TestExecute_FailOnNew_PassesWhenViolationsOutsideDiff(t *testing.T) {
	backend := &fakeBackend{diff: prDiff}
	build := New(testConfig(config.FailOnNew, true), backend, zap.NewNop())

	output := "lib/util.py:10:1: E302 expected 2 blank lines, found 1"
	result, err := build.Execute(context.Background(), output)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Violations.Total())
	assert.Zero(t, result.InDiff)
	assert.False(t, result.Failed)
	// The review is still posted so the violation is visible.
	assert.Len(t, backend.reviews, 1)
}

func TestExecute_FailOnAny_FailsOnAnything(t *testing.T) {
	backend := &fakeBackend{diff: prDiff}
	build := New(testConfig(config.FailOnAny, true), backend, zap.NewNop())

	output := "lib/util.py:10:1: E302 expected 2 blank lines, found 1"
	result, err := build.Execute(context.Background(), output)
	require.NoError(t, err)
	assert.True(t, result.Failed)
}

func TestExecute_PostStatusDisabled(t *testing.T) {
	backend := &fakeBackend{diff: prDiff}
	build := New(testConfig(config.FailOnNew, false), backend, zap.NewNop())

	_, err := build.Execute(context.Background(), flakeOutput)
	require.NoError(t, err)
	assert.Empty(t, backend.statuses)
}

func TestExecute_DiffFetchFailurePostsErrorStatus(t *testing.T) {
	backend := &fakeBackend{diffErr: errors.New("boom")}
	build := New(testConfig(config.FailOnNew, true), backend, zap.NewNop())

	result, err := build.Execute(context.Background(), flakeOutput)
	require.Error(t, err)
	require.NotNil(t, result, "parsed violations survive publishing failures")
	assert.Equal(t, 3, result.Violations.Total())

	require.Len(t, backend.statuses, 2)
	assert.Equal(t, backends.StatusPending, backend.statuses[0].State)
	assert.Equal(t, backends.StatusError, backend.statuses[1].State)
}

func TestExecute_UnknownFormat(t *testing.T) {
	cfg := testConfig(config.FailOnNew, true)
	cfg.Review.Format = "clippy"
	build := New(cfg, &fakeBackend{}, zap.NewNop())

	_, err := build.Execute(context.Background(), "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported linter format")
}

func TestExecute_RequestChanges(t *testing.T) {
	backend := &fakeBackend{diff: prDiff}
	cfg := testConfig(config.FailOnNew, false)
	cfg.Review.RequestChanges = true
	build := New(cfg, backend, zap.NewNop())

	_, err := build.Execute(context.Background(), flakeOutput)
	require.NoError(t, err)
	require.Len(t, backend.reviews, 1)
	assert.True(t, backend.reviews[0].RequestChanges)
}
