package render

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iabetor/choirsynth/internal/logger"
	_ "modernc.org/sqlite"
)

// AssetCache stores rendered WAV assets on disk with a sqlite index.
// Renders are keyed by a hash of the full request, so a cache hit is
// byte-identical to re-rendering by construction. A nil or disabled cache
// is safe to use; every operation becomes a no-op miss.
type AssetCache struct {
	mu      sync.Mutex
	db      *sql.DB
	dir     string
	maxSize int64 // bytes; 0 means disabled
}

// OpenCache opens (or creates) the cache at dir. maxSizeMB of 0, or an
// empty dir, disables caching.
func OpenCache(dir string, maxSizeMB int64) (*AssetCache, error) {
	if dir == "" || maxSizeMB == 0 {
		return &AssetCache{}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "assets.db"))
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS assets (
		key TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_used DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache index: %w", err)
	}

	logger.Infof("[cache] asset cache open: %s (max %d MB)", dir, maxSizeMB)
	return &AssetCache{db: db, dir: dir, maxSize: maxSizeMB * 1024 * 1024}, nil
}

// Enabled reports whether the cache stores anything.
func (c *AssetCache) Enabled() bool {
	return c != nil && c.maxSize > 0
}

// Lookup returns the cached WAV bytes for key, if present.
func (c *AssetCache) Lookup(key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var size int64
	err := c.db.QueryRow("SELECT size FROM assets WHERE key = ?", key).Scan(&size)
	if err != nil {
		return nil, false
	}

	data, err := os.ReadFile(c.assetPath(key))
	if err != nil {
		// Index entry without a file: heal the index.
		logger.Warnf("[cache] missing asset file for %s, dropping index entry", key)
		_, _ = c.db.Exec("DELETE FROM assets WHERE key = ?", key)
		return nil, false
	}

	_, _ = c.db.Exec("UPDATE assets SET last_used = ? WHERE key = ?", time.Now().UTC(), key)
	return data, true
}

// Store writes WAV bytes under key and evicts least-recently-used assets
// until the cache fits its size budget.
func (c *AssetCache) Store(key string, wav []byte) error {
	if !c.Enabled() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := c.assetPath(key) + ".tmp"
	if err := os.WriteFile(tmp, wav, 0644); err != nil {
		return fmt.Errorf("write cache asset: %w", err)
	}
	if err := os.Rename(tmp, c.assetPath(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit cache asset: %w", err)
	}

	if _, err := c.db.Exec(
		"INSERT OR REPLACE INTO assets (key, size, last_used) VALUES (?, ?, ?)",
		key, int64(len(wav)), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("index cache asset: %w", err)
	}

	return c.evictLocked()
}

// evictLocked removes LRU entries until total size fits the budget.
func (c *AssetCache) evictLocked() error {
	var total int64
	if err := c.db.QueryRow("SELECT COALESCE(SUM(size),0) FROM assets").Scan(&total); err != nil {
		return err
	}

	for total > c.maxSize {
		var key string
		var size int64
		err := c.db.QueryRow("SELECT key, size FROM assets ORDER BY last_used ASC LIMIT 1").Scan(&key, &size)
		if err != nil {
			return err
		}
		if _, err := c.db.Exec("DELETE FROM assets WHERE key = ?", key); err != nil {
			return err
		}
		os.Remove(c.assetPath(key))
		total -= size
		logger.Debugf("[cache] evicted %s (%d bytes)", key, size)
	}
	return nil
}

// Close releases the sqlite index.
func (c *AssetCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *AssetCache) assetPath(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
