// Package storage keeps a local catalog of downloaded backups.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backup describes one backup archive written to disk.
type Backup struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Status    int       `json:"status"`
}

// ErrNotFound is returned by Latest when the catalog holds no live entry.
var ErrNotFound = errors.New("no backup recorded")

// Catalog records backups and forgets them once their retention elapses.
type Catalog interface {
	Close() error
	Record(b Backup) error
	List() ([]Backup, error)
	Latest() (Backup, error)
}

// Options controls retention for concrete catalog implementations.
type Options struct {
	Retention       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRetention       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewCatalog creates the configured catalog backend.
func NewCatalog(typ, path string, opts Options) (Catalog, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopCatalog{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt catalog requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported catalog type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopCatalog struct{}

func (noopCatalog) Close() error            { return nil }
func (noopCatalog) Record(Backup) error     { return nil }
func (noopCatalog) List() ([]Backup, error) { return nil, nil }
func (noopCatalog) Latest() (Backup, error) { return Backup{}, ErrNotFound }
