package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	githubbackend "github.com/23andMe/lintly/internal/backends/github"
	"github.com/23andMe/lintly/internal/builds"
	"github.com/23andMe/lintly/internal/ci"
	"github.com/23andMe/lintly/internal/config"
	"github.com/23andMe/lintly/internal/gitinfo"
	"github.com/23andMe/lintly/internal/observability"
)

// newReviewCmd creates the `review` command, the main lintly flow.
func newReviewCmd(cfg *config.Config, v *viper.Viper) *cobra.Command {
	var inputPath string

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Parse linter output and post it as a pull request review",
		Long: `Reads linter output from stdin (or --input), parses it with the configured
format, and posts the violations to the pull request: inline comments for
violations on changed lines, a review body section for the rest. The exit
code follows --fail-on: 1 when the policy fails the build, 0 otherwise.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Flag -> viper key bindings so flags override file and env.
			bindings := map[string]string{
				"review.format":          "format",
				"review.fail_on":         "fail-on",
				"review.post_status":     "post-status",
				"review.request_changes": "request-changes",
				"github.api_key":         "api-key",
				"github.repo":            "repo",
				"github.pr":              "pr",
				"github.commit_sha":      "commit-sha",
				"github.base_url":        "base-url",
			}
			for key, flag := range bindings {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-read config now that the flags are bound.
			loaded, err := config.Load(v)
			if err != nil {
				return err
			}
			*cfg = *loaded

			resolveCoordinates(cfg, logger)
			if cfg.GitHub.Repo == "" || cfg.GitHub.PR <= 0 {
				return fmt.Errorf("no pull request to review: pass --repo and --pr or run in a supported CI provider")
			}

			output, err := readLinterOutput(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}

			backend, err := githubbackend.New(githubbackend.Options{
				Token:     cfg.GitHub.APIKey,
				Repo:      cfg.GitHub.Repo,
				PR:        cfg.GitHub.PR,
				CommitSHA: cfg.GitHub.CommitSHA,
				BaseURL:   cfg.GitHub.BaseURL,
			}, logger)
			if err != nil {
				return err
			}

			result, err := builds.New(cfg, backend, logger).Execute(ctx, output)
			if err != nil {
				return err
			}

			printReviewSummary(cmd.OutOrStdout(), cfg, result)
			if result.Failed {
				return ErrViolations
			}
			return nil
		},
	}

	reviewCmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"Read linter output from a file instead of stdin")
	reviewCmd.Flags().StringP("format", "f", "flake8", "Linter output format (see `lintly parsers`)")
	reviewCmd.Flags().String("fail-on", config.FailOnNew,
		`When to fail the build: "any" violation or only "new" ones on changed lines`)
	reviewCmd.Flags().Bool("post-status", true, "Post a commit status for the review")
	reviewCmd.Flags().Bool("request-changes", false, "Post the review as REQUEST_CHANGES instead of COMMENT")
	reviewCmd.Flags().String("api-key", "", "GitHub API token (or LINTLY_GITHUB_API_KEY)")
	reviewCmd.Flags().String("repo", "", `Repository slug "owner/name"`)
	reviewCmd.Flags().Int("pr", 0, "Pull request number")
	reviewCmd.Flags().String("commit-sha", "", "Head commit of the pull request")
	reviewCmd.Flags().String("base-url", "", "GitHub Enterprise API base URL")

	return reviewCmd
}

// resolveCoordinates fills missing PR coordinates from the CI environment,
// then from the local git checkout. Explicit values always win.
func resolveCoordinates(cfg *config.Config, logger *zap.Logger) {
	if build := ci.Detect(); build != nil {
		logger.Info("detected CI provider", zap.String("provider", build.Provider))
		if cfg.GitHub.Repo == "" {
			cfg.GitHub.Repo = build.Repo
		}
		if cfg.GitHub.PR == 0 {
			cfg.GitHub.PR = build.PR
		}
		if cfg.GitHub.CommitSHA == "" {
			cfg.GitHub.CommitSHA = build.CommitSHA
		}
	}

	if cfg.GitHub.Repo == "" || cfg.GitHub.CommitSHA == "" {
		if info, err := gitinfo.Resolve("."); err == nil {
			if cfg.GitHub.Repo == "" {
				cfg.GitHub.Repo = info.Repo
			}
			if cfg.GitHub.CommitSHA == "" {
				cfg.GitHub.CommitSHA = info.CommitSHA
			}
		}
	}
}

// readLinterOutput reads from the file when --input is set, stdin otherwise.
func readLinterOutput(stdin io.Reader, inputPath string) (string, error) {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("reading linter output: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading linter output from stdin: %w", err)
	}
	return string(data), nil
}

func printReviewSummary(w io.Writer, cfg *config.Config, result *builds.Result) {
	total := result.Violations.Total()
	if total == 0 {
		color.New(color.FgGreen).Fprintf(w, "✓ No issues found\n")
		return
	}

	color.New(color.FgYellow).Fprintf(w, "Found %d issue(s) in %d file(s); %d on changed lines\n",
		total, len(result.Violations.Paths()), result.InDiff)
	fmt.Fprintf(w, "Review posted to %s#%d\n", cfg.GitHub.Repo, cfg.GitHub.PR)
	if result.DeletedStale > 0 {
		fmt.Fprintf(w, "Cleaned up %d stale comment(s) from earlier runs\n", result.DeletedStale)
	}
}
