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
		fmt.Fprintf(os.Stderr, "cleanspeak-backup failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:   "cleanspeak-backup",
		Short: "Download, catalog and restore CleanSpeak system backups",
		Long: `cleanspeak-backup drives the CleanSpeak /system/backup and /system/restore
endpoints. Backups land in backup_dir and are recorded in the local catalog.

Run without a command to take a backup.

Examples:
  cleanspeak-backup                       # Same as 'backup'
  cleanspeak-backup --dir /tmp/cs backup  # Override backup_dir
  cleanspeak-backup restore               # Restore the latest cataloged backup
  cleanspeak-backup restore saved.zip     # Restore a specific archive
  cleanspeak-backup list                  # Print the catalog`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArchiver(cmd, dir, runBackup)
		},
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "override backup_dir")

	root.AddCommand(
		&cobra.Command{
			Use:   "backup",
			Short: "Download a backup into backup_dir",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withArchiver(cmd, dir, runBackup)
			},
		},
		&cobra.Command{
			Use:   "restore [path]",
			Short: "Upload path, or the latest cataloged backup",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var path string
				if len(args) > 0 {
					path = args[0]
				}
				return withArchiver(cmd, dir, func(cmd *cobra.Command, a *app.Archiver) error {
					if err := a.Restore(cmd.Context(), path); err != nil {
						return fmt.Errorf("restore: %w", err)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print cataloged backups",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withArchiver(cmd, dir, runList)
			},
		},
	)
	return root
}

// withArchiver loads configuration, applies the --dir override and hands an
// open archiver to fn.
func withArchiver(cmd *cobra.Command, dir string, fn func(*cobra.Command, *app.Archiver) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dir != "" {
		cfg.BackupDir = dir
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("cleanspeak-backup starting", "config", cfg.Redacted())

	archiver, err := app.NewArchiver(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize archiver", "error", err)
		return err
	}
	defer archiver.Close()

	return fn(cmd, archiver)
}

func runBackup(cmd *cobra.Command, a *app.Archiver) error {
	b, err := a.Backup(cmd.Context())
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), b.Path)
	return nil
}

func runList(cmd *cobra.Command, a *app.Archiver) error {
	history, err := a.History()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, b := range history {
		fmt.Fprintf(out, "%s\t%s\t%d\t%s\n", b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), b.ID, b.Size, b.Path)
	}
	return nil
}
