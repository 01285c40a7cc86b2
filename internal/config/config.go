// Package config defines lintly's configuration and its viper wiring.
//
// Precedence, lowest to highest: built-in defaults, config file
// (.lintly.yaml in the working directory or ~/.config/lintly/), LINTLY_*
// environment variables, command-line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// FailOn values for ReviewConfig.FailOn.
const (
	// FailOnAny fails the build when any violation is found.
	FailOnAny = "any"
	// FailOnNew fails the build only for violations on lines this PR changed.
	FailOnNew = "new"
)

// Config is the root configuration object.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	GitHub GitHubConfig `mapstructure:"github"`
	Review ReviewConfig `mapstructure:"review"`
}

// GitHubConfig locates the pull request lintly reports to.
type GitHubConfig struct {
	// APIKey is a token with repo scope. Never put it in the config file in
	// CI; pass it via LINTLY_GITHUB_API_KEY or --api-key.
	APIKey string `mapstructure:"api_key"`

	// Repo is the "owner/name" slug.
	Repo string `mapstructure:"repo"`

	// PR is the pull request number.
	PR int `mapstructure:"pr"`

	// CommitSHA is the PR head commit. Required for commit statuses.
	CommitSHA string `mapstructure:"commit_sha"`

	// BaseURL overrides the API endpoint for GitHub Enterprise.
	BaseURL string `mapstructure:"base_url"`
}

// ReviewConfig controls how a build is judged and published.
type ReviewConfig struct {
	// Format names the parser for the linter output (see `lintly parsers`).
	Format string `mapstructure:"format"`

	// FailOn is "any" or "new".
	FailOn string `mapstructure:"fail_on"`

	// PostStatus controls whether a commit status is posted.
	PostStatus bool `mapstructure:"post_status"`

	// RequestChanges posts the review as REQUEST_CHANGES instead of COMMENT.
	RequestChanges bool `mapstructure:"request_changes"`
}

// LoggerConfig mirrors the knobs of the observability package.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	ServiceName string `mapstructure:"service_name"`
	LogFile     string `mapstructure:"log_file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
}

// SetDefaults registers every default on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "lintly")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	// Empty defaults register the keys so AutomaticEnv values survive
	// viper.Unmarshal (viper only unmarshals keys it knows about).
	v.SetDefault("github.api_key", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.pr", 0)
	v.SetDefault("github.commit_sha", "")
	v.SetDefault("github.base_url", "")

	v.SetDefault("review.format", "flake8")
	v.SetDefault("review.fail_on", FailOnNew)
	v.SetDefault("review.post_status", true)
	v.SetDefault("review.request_changes", false)
}

// Init wires config file discovery and the environment on the given viper
// instance. cfgFile, when non-empty, pins an explicit config file.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".lintly")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "lintly"))
		}
	}

	v.SetEnvPrefix("LINTLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; env vars and flags carry CI usage.
	}
	return nil
}

// Load unmarshals the viper state into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects option values that would only surface as confusing
// behavior later.
func (c *Config) Validate() error {
	if c.Review.FailOn != FailOnAny && c.Review.FailOn != FailOnNew {
		return fmt.Errorf("review.fail_on must be %q or %q, got %q", FailOnAny, FailOnNew, c.Review.FailOn)
	}
	return nil
}
