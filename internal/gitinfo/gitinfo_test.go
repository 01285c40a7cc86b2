package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugFromRemoteURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://github.com/grantmcc/django-test.git", "grantmcc/django-test"},
		{"https://github.com/grantmcc/django-test", "grantmcc/django-test"},
		{"git@github.com:grantmcc/django-test.git", "grantmcc/django-test"},
		{"ssh://git@github.com/grantmcc/django-test.git", "grantmcc/django-test"},
		{"https://gitlab.com/grantmcc/django-test.git", ""},
		{"not a url", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SlugFromRemoteURL(tc.url), tc.url)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:grantmcc/django-test.git"},
	})
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("x = 1\n"), 0o644))
	_, err = wt.Add("app.py")
	require.NoError(t, err)
	commit, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	info, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, commit.String(), info.CommitSHA)
	assert.Equal(t, "grantmcc/django-test", info.Repo)
}

func TestResolve_SubdirectorySearchesParents(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.py"), []byte("y = 2\n"), 0o644))
	_, err = wt.Add("pkg/a.py")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	info, err := Resolve(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, info.CommitSHA)
	assert.Empty(t, info.Repo, "no origin remote configured")
}

func TestResolve_NotARepository(t *testing.T) {
	_, err := Resolve(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening git repository")
}
