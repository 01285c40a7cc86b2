// Package ci detects the continuous-integration environment lintly runs in
// and pre-fills the pull request coordinates from its well-known variables.
// Anything the user passes explicitly wins over detection.
package ci

import (
	"os"
	"strconv"
	"strings"
)

// Build holds the PR coordinates a CI provider exposes. Fields a provider
// does not expose stay zero.
type Build struct {
	Provider  string
	Repo      string
	PR        int
	CommitSHA string
}

// Detect inspects the environment and returns the current CI build, or nil
// when not running under a recognized provider.
func Detect() *Build {
	return detect(os.Getenv)
}

// detect is the testable core, reading env through the given lookup.
func detect(getenv func(string) string) *Build {
	switch {
	case getenv("GITHUB_ACTIONS") == "true":
		return &Build{
			Provider:  "github-actions",
			Repo:      getenv("GITHUB_REPOSITORY"),
			PR:        prFromGitHubRef(getenv("GITHUB_REF")),
			CommitSHA: getenv("GITHUB_SHA"),
		}

	case getenv("TRAVIS") == "true":
		pr, _ := strconv.Atoi(getenv("TRAVIS_PULL_REQUEST")) // "false" on push builds
		return &Build{
			Provider:  "travis",
			Repo:      getenv("TRAVIS_REPO_SLUG"),
			PR:        pr,
			CommitSHA: getenv("TRAVIS_PULL_REQUEST_SHA"),
		}

	case getenv("CIRCLECI") == "true":
		build := &Build{
			Provider:  "circleci",
			CommitSHA: getenv("CIRCLE_SHA1"),
		}
		if user, repo := getenv("CIRCLE_PROJECT_USERNAME"), getenv("CIRCLE_PROJECT_REPONAME"); user != "" && repo != "" {
			build.Repo = user + "/" + repo
		}
		// CIRCLE_PULL_REQUEST is the full PR URL; the number is its last segment.
		if url := getenv("CIRCLE_PULL_REQUEST"); url != "" {
			segments := strings.Split(strings.TrimRight(url, "/"), "/")
			build.PR, _ = strconv.Atoi(segments[len(segments)-1])
		}
		return build

	case getenv("DRONE") == "true":
		pr, _ := strconv.Atoi(getenv("DRONE_PULL_REQUEST"))
		return &Build{
			Provider:  "drone",
			Repo:      getenv("DRONE_REPO"),
			PR:        pr,
			CommitSHA: getenv("DRONE_COMMIT"),
		}

	case getenv("JENKINS_URL") != "":
		pr, _ := strconv.Atoi(getenv("ghprbPullId"))
		return &Build{
			Provider:  "jenkins",
			Repo:      getenv("ghprbGhRepository"),
			PR:        pr,
			CommitSHA: getenv("GIT_COMMIT"),
		}
	}

	return nil
}

// prFromGitHubRef extracts the PR number from refs like "refs/pull/123/merge".
func prFromGitHubRef(ref string) int {
	rest, ok := strings.CutPrefix(ref, "refs/pull/")
	if !ok {
		return 0
	}
	number, _, _ := strings.Cut(rest, "/")
	pr, _ := strconv.Atoi(number)
	return pr
}
