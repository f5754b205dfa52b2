package cmd

import (
	"fmt"

	"github.com/sanix-darker/revu/internal/config"
	"github.com/sanix-darker/revu/internal/event"
	"github.com/sanix-darker/revu/internal/provider"
	_ "github.com/sanix-darker/revu/internal/provider/init"
	"github.com/sanix-darker/revu/internal/review"
	"github.com/sanix-darker/revu/internal/vcs"
	_ "github.com/sanix-darker/revu/internal/vcs/init"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Review the pull request that triggered this run.",
		Long: `Reads the trigger event payload, fetches the relevant diff (full PR for
"opened", pushed commit range for "synchronize"), reviews every hunk with the
configured AI provider and posts the findings as one batched review.`,
		RunE: runReview,
	}
	reviewCmd.Flags().Bool("debug", false, "enable debug logging")
	reviewCmd.Flags().Int("workers", 0, "max concurrent hunk reviews (default 4)")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	debugFlag, _ := cmd.Flags().GetBool("debug")
	workers, _ := cmd.Flags().GetInt("workers")

	logger, err := newLogger(cfg.Debug || debugFlag)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	platform, err := vcs.Get("github", cfg.GitHubToken, cfg.GitHubAPIURL)
	if err != nil {
		return err
	}

	ai, err := provider.Get(cfg.Provider, cfg.Settings)
	if err != nil {
		return err
	}
	if err := ai.Validate(cmd.Context()); err != nil {
		return fmt.Errorf("provider %q is not usable: %w", cfg.Provider, err)
	}

	payload, err := event.Load(cfg.EventPath)
	if err != nil {
		return err
	}

	logger.Info("starting review run",
		zap.String("repo", payload.Repo()),
		zap.Int("pull", payload.PullNumber()),
		zap.String("action", payload.Action),
		zap.String("provider", cfg.Provider))

	pipeline := review.NewPipeline(platform, ai, review.Options{
		Exclude:     cfg.Exclude,
		HunkWorkers: workers,
	}, logger)

	result, err := pipeline.Run(cmd.Context(), payload)
	if err != nil {
		logger.Error("review run failed", zap.Error(err))
		return err
	}

	logger.Info("review run finished", zap.String("state", string(result.State)))
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	if debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapCfg.Build()
}
