package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inversoft/cleanspeak-go-client/internal/config"
	"github.com/inversoft/cleanspeak-go-client/internal/logger"
	"github.com/inversoft/cleanspeak-go-client/internal/storage"
	"github.com/inversoft/cleanspeak-go-client/pkg/cleanspeak"
)

const backupTimeLayout = "20060102T150405Z"

// Archiver downloads and restores CleanSpeak database backups and keeps a
// local catalog of what it downloaded.
type Archiver struct {
	client  *cleanspeak.Client
	catalog storage.Catalog
	dir     string
	log     logger.Logger
	now     func() time.Time
}

// NewArchiver builds a backup runtime from config.
func NewArchiver(cfg *config.Config, log logger.Logger) (*Archiver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	client, err := cleanspeak.New(cfg.CleanSpeakAPIKey, cfg.CleanSpeakURL,
		cleanspeak.WithTimeout(cfg.RequestTimeout),
		cleanspeak.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create cleanspeak client: %w", err)
	}

	catalog, err := storage.NewCatalog(cfg.CatalogType, cfg.CatalogPath, storage.Options{
		Retention: cfg.CatalogRetention,
	})
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	log.InfoObj("catalog initialized", "catalog_config", map[string]any{
		"type":              cfg.CatalogType,
		"path":              cfg.CatalogPath,
		"retention_seconds": int(cfg.CatalogRetention.Seconds()),
	})

	return newArchiver(client, catalog, cfg.BackupDir, log), nil
}

func newArchiver(client *cleanspeak.Client, catalog storage.Catalog, dir string, log logger.Logger) *Archiver {
	return &Archiver{
		client:  client,
		catalog: catalog,
		dir:     dir,
		log:     log,
		now:     time.Now,
	}
}

// Backup streams a fresh backup into the backup directory and records it.
func (a *Archiver) Backup(ctx context.Context) (storage.Backup, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return storage.Backup{}, fmt.Errorf("create backup directory: %w", err)
	}

	resp, err := a.client.Backup(ctx)
	if err != nil {
		return storage.Backup{}, err
	}
	if err := responseError("backup", resp); err != nil {
		resp.Close()
		return storage.Backup{}, err
	}

	created := a.now().UTC()
	path := filepath.Join(a.dir, "cleanspeak-"+created.Format(backupTimeLayout)+".zip")
	n, err := resp.WriteResponseToFile(path)
	if err != nil {
		_ = os.Remove(path)
		return storage.Backup{}, fmt.Errorf("write backup: %w", err)
	}

	b := storage.Backup{
		ID:        uuid.NewString(),
		Path:      path,
		Size:      n,
		CreatedAt: created,
		Status:    resp.Status,
	}
	if err := a.catalog.Record(b); err != nil {
		return b, fmt.Errorf("record backup: %w", err)
	}
	a.log.InfoObj("backup written", "backup", b)
	return b, nil
}

// Restore uploads the backup at path. An empty path restores the most recent
// cataloged backup.
func (a *Archiver) Restore(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		latest, err := a.catalog.Latest()
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no backup path given and %w", err)
			}
			return fmt.Errorf("read catalog: %w", err)
		}
		path = latest.Path
	}

	resp, err := a.client.Restore(ctx, path)
	if err != nil {
		return err
	}
	if err := responseError("restore", resp); err != nil {
		return err
	}
	a.log.InfoObj("backup restored", "restore", map[string]any{
		"path":   path,
		"status": resp.Status,
	})
	return nil
}

// History lists the cataloged backups that are still within retention.
func (a *Archiver) History() ([]storage.Backup, error) {
	return a.catalog.List()
}

// Close releases the catalog.
func (a *Archiver) Close() error {
	if a == nil || a.catalog == nil {
		return nil
	}
	return a.catalog.Close()
}
