// Package cmd wires the lintly command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/23andMe/lintly/internal/config"
	"github.com/23andMe/lintly/internal/observability"
)

// ErrViolations is returned by commands whose gating policy failed the run.
// It maps to exit code 1; every other error maps to exit code 2.
var ErrViolations = errors.New("violations found")

// ExitCode translates a command error into the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrViolations):
		return 1
	default:
		return 2
	}
}

// NewRootCommand builds the command tree. A fresh tree per invocation keeps
// flag state from leaking between runs in tests.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	// cfg and v are populated in PersistentPreRunE and shared with the
	// subcommands through closures. A viper instance per command tree keeps
	// repeated invocations (the test suite, mainly) from leaking state.
	cfg := &config.Config{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "lintly",
		Short:         "Lintly posts linter output as GitHub pull request reviews",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(v, cfgFile); err != nil {
				return err
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := v.BindPFlag("logger.level", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}

			loaded, err := config.Load(v)
			if err != nil {
				return err
			}
			*cfg = *loaded

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("configuration loaded",
				zap.String("format", cfg.Review.Format),
				zap.String("fail_on", cfg.Review.FailOn))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default is ./.lintly.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	rootCmd.AddCommand(newReviewCmd(cfg, v))
	rootCmd.AddCommand(newCheckReportCmd())
	rootCmd.AddCommand(newParsersCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI with the given signal-aware context.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrViolations) {
		observability.GetLogger().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	observability.Sync()
	return err
}
