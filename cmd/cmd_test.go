package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23andMe/lintly/internal/observability"
)

const banditFixture = "../internal/parsers/testdata/bandit.json"

// clearCIEnv blanks the CI detection variables so tests behave the same
// locally and on a CI runner.
func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_ACTIONS", "TRAVIS", "CIRCLECI", "DRONE", "JENKINS_URL",
		"LINTLY_GITHUB_REPO", "LINTLY_GITHUB_PR", "LINTLY_GITHUB_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

// execute runs the CLI once with fresh command state.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(ErrViolations))
	assert.Equal(t, 2, ExitCode(assert.AnError))
}

func TestVersionFlag(t *testing.T) {
	clearCIEnv(t)
	stdout, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}

func TestVersionCommand(t *testing.T) {
	clearCIEnv(t)
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}

func TestParsersCommand(t *testing.T) {
	clearCIEnv(t)
	stdout, _, err := execute(t, "", "parsers")
	require.NoError(t, err)

	for _, format := range []string{"bandit-json", "flake8", "eslint", "gitleaks", "hadolint"} {
		assert.Contains(t, stdout, format)
	}
}

func TestCheckReport_ValidReport(t *testing.T) {
	clearCIEnv(t)
	stdout, _, err := execute(t, "", "check-report", banditFixture)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Scanned 3 file(s), 190 lines")
	assert.Contains(t, stdout, "HIGH")
	assert.Contains(t, stdout, "LOW")
}

func TestCheckReport_FailOnThreshold(t *testing.T) {
	clearCIEnv(t)

	// The fixture has one HIGH finding, so HIGH gating fails the run.
	stdout, _, err := execute(t, "", "check-report", banditFixture, "--fail-on", "HIGH")
	require.ErrorIs(t, err, ErrViolations)
	assert.Contains(t, stdout, "at or above HIGH severity")
	assert.Equal(t, 1, ExitCode(err))
}

func TestCheckReport_InvalidThreshold(t *testing.T) {
	clearCIEnv(t)
	_, _, err := execute(t, "", "check-report", banditFixture, "--fail-on", "SEVERE")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrViolations)
	assert.Contains(t, err.Error(), "invalid --fail-on severity")
}

func TestCheckReport_MissingFile(t *testing.T) {
	clearCIEnv(t)
	_, _, err := execute(t, "", "check-report", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestReview_RequiresPullRequestCoordinates(t *testing.T) {
	clearCIEnv(t)
	_, _, err := execute(t, "", "review", "--format", "flake8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pull request to review")
}

func TestReview_RejectsInvalidFailOn(t *testing.T) {
	clearCIEnv(t)
	_, _, err := execute(t, "", "review", "--fail-on", "sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review.fail_on")
}
