package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/ppiankov/incidents/internal/model"
)

// Cache stores raw detail records
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives the key for record id served by source
func CacheKey(source string, id int) string {
	hash := sha256.Sum256([]byte(source + "#" + strconv.Itoa(id)))
	return "incidents:v1:" + hex.EncodeToString(hash[:16])
}

// FromConfig builds the cache described by cfg: nil when disabled,
// memory only without a disk directory, memory over disk otherwise.
func FromConfig(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.DiskDir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.DiskDir, cfg.DiskTTL)
}
