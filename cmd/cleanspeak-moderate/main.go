package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inversoft/cleanspeak-go-client/internal/app"
	"github.com/inversoft/cleanspeak-go-client/internal/config"
	"github.com/inversoft/cleanspeak-go-client/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cleanspeak-moderate failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var itemsFile string

	root := &cobra.Command{
		Use:   "cleanspeak-moderate",
		Short: "Moderate configured content items and publish the decisions",
		Long: `cleanspeak-moderate sends every item from items_file to CleanSpeak for
moderation, flags the ones that ask for it and fans each decision out to the
enabled publishers.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), itemsFile)
		},
	}
	root.Flags().StringVar(&itemsFile, "items", "", "override items_file")
	return root
}

func run(ctx context.Context, itemsFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if itemsFile != "" {
		cfg.ItemsFile = itemsFile
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("cleanspeak-moderate starting", "config", cfg.Redacted())

	moderator, err := app.NewModerator(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize moderator", "error", err)
		return err
	}

	summary, err := moderator.Run(ctx)
	if err != nil {
		return fmt.Errorf("moderator run: %w", err)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d items failed moderation", summary.Failed, summary.Total)
	}
	return nil
}
