package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const backupBucket = "backups"

// record is the stored form of a Backup.
type record struct {
	Backup
	ExpiresAt int64 `json:"expires_at"`
}

// boltCatalog implements a Catalog backed by BoltDB.
type boltCatalog struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	retention       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (Catalog, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(backupBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	c := &boltCatalog{
		db:              db,
		retention:       opts.Retention,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	c.lastCleanup.Store(c.now().Unix())
	return c, nil
}

func (c *boltCatalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Record stores b under its ID, replacing an earlier entry with the same ID.
func (c *boltCatalog) Record(b Backup) error {
	if b.ID == "" {
		return errors.New("backup id is required")
	}
	now := c.now()
	if err := c.maybeCleanupExpired(now); err != nil {
		return err
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}

	data, err := json.Marshal(record{Backup: b, ExpiresAt: b.CreatedAt.Add(c.retention).Unix()})
	if err != nil {
		return fmt.Errorf("encode backup record: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(backupBucket))
		if bucket == nil {
			return fmt.Errorf("backup bucket missing")
		}
		return bucket.Put([]byte(b.ID), data)
	})
}

// List returns the live entries, oldest first.
func (c *boltCatalog) List() ([]Backup, error) {
	now := c.now()
	if err := c.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	var out []Backup
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(backupBucket))
		if bucket == nil {
			return fmt.Errorf("backup bucket missing")
		}
		return bucket.ForEach(func(_, v []byte) error {
			rec, ok := decodeRecord(v)
			if !ok || !time.Unix(rec.ExpiresAt, 0).After(now) {
				return nil
			}
			out = append(out, rec.Backup)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Latest returns the most recent live entry.
func (c *boltCatalog) Latest() (Backup, error) {
	all, err := c.List()
	if err != nil {
		return Backup{}, err
	}
	if len(all) == 0 {
		return Backup{}, ErrNotFound
	}
	return all[len(all)-1], nil
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (c *boltCatalog) maybeCleanupExpired(now time.Time) error {
	if c == nil || c.db == nil {
		return nil
	}

	last := time.Unix(c.lastCleanup.Load(), 0)
	if now.Sub(last) < c.cleanupInterval {
		return nil
	}

	c.cleanupMu.Lock()
	defer c.cleanupMu.Unlock()

	last = time.Unix(c.lastCleanup.Load(), 0)
	if now.Sub(last) < c.cleanupInterval {
		return nil
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(backupBucket))
		if bucket == nil {
			return fmt.Errorf("backup bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			rec, ok := decodeRecord(v)
			if !ok || !time.Unix(rec.ExpiresAt, 0).After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		c.lastCleanup.Store(now.Unix())
	}
	return err
}

func decodeRecord(value []byte) (record, bool) {
	var rec record
	if err := json.Unmarshal(value, &rec); err != nil {
		return record{}, false
	}
	if rec.ExpiresAt <= 0 {
		return record{}, false
	}
	return rec, true
}
