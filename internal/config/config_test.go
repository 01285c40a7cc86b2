package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "lintly", cfg.Logger.ServiceName)
	assert.Equal(t, "flake8", cfg.Review.Format)
	assert.Equal(t, FailOnNew, cfg.Review.FailOn)
	assert.True(t, cfg.Review.PostStatus)
	assert.False(t, cfg.Review.RequestChanges)
}

func TestInit_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lintly.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
github:
  repo: grantmcc/django-test
  pr: 7
review:
  format: bandit-json
  fail_on: any
`), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, cfgPath))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "grantmcc/django-test", cfg.GitHub.Repo)
	assert.Equal(t, 7, cfg.GitHub.PR)
	assert.Equal(t, "bandit-json", cfg.Review.Format)
	assert.Equal(t, FailOnAny, cfg.Review.FailOn)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Review.PostStatus)
}

func TestInit_EnvOverride(t *testing.T) {
	t.Setenv("LINTLY_GITHUB_API_KEY", "secret-token")
	t.Setenv("LINTLY_REVIEW_FAIL_ON", "any")

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.GitHub.APIKey)
	assert.Equal(t, FailOnAny, cfg.Review.FailOn)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate_FailOn(t *testing.T) {
	cfg := &Config{Review: ReviewConfig{FailOn: "sometimes"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review.fail_on")

	cfg.Review.FailOn = FailOnAny
	assert.NoError(t, cfg.Validate())
	cfg.Review.FailOn = FailOnNew
	assert.NoError(t, cfg.Validate())
}
