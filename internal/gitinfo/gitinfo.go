// Package gitinfo resolves pull request coordinates from the local git
// repository, the fallback used when lintly runs outside a recognized CI
// provider and the user did not pass them explicitly.
package gitinfo

import (
	"fmt"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Info holds what the local checkout can tell us.
type Info struct {
	// Repo is the "owner/name" slug parsed from the origin remote.
	Repo string
	// CommitSHA is the current HEAD commit.
	CommitSHA string
}

// githubRemoteRe matches both https and ssh GitHub remote URLs:
//
//	https://github.com/owner/name.git
//	git@github.com:owner/name.git
var githubRemoteRe = regexp.MustCompile(`github\.com[:/]([^/]+)/(.+?)(?:\.git)?$`)

// Resolve opens the repository containing dir (searching parents for .git)
// and extracts HEAD and the origin slug.
func Resolve(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	info := &Info{CommitSHA: head.Hash().String()}

	remote, err := repo.Remote("origin")
	if err != nil {
		// A detached checkout without origin can still post by explicit
		// --repo, so the missing slug is not fatal here.
		return info, nil
	}
	if urls := remote.Config().URLs; len(urls) > 0 {
		info.Repo = SlugFromRemoteURL(urls[0])
	}
	return info, nil
}

// SlugFromRemoteURL extracts "owner/name" from a GitHub remote URL, or ""
// when the URL does not point at GitHub.
func SlugFromRemoteURL(url string) string {
	match := githubRemoteRe.FindStringSubmatch(strings.TrimSpace(url))
	if match == nil {
		return ""
	}
	return match[1] + "/" + match[2]
}
