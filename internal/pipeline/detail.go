package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ppiankov/incidents/internal/cache"
	"github.com/ppiankov/incidents/internal/model"
)

// DetailFetcher resolves ids to display-ready incident records
type DetailFetcher struct {
	source     Source
	cache      cache.Cache // nil disables caching
	fallbackID int
	logger     *slog.Logger
}

// NewDetailFetcher creates a fetcher. c may be nil.
// fallbackID, when non-zero, is tried before the built-in fallback record.
func NewDetailFetcher(source Source, c cache.Cache, fallbackID int, logger *slog.Logger) *DetailFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailFetcher{
		source:     source,
		cache:      c,
		fallbackID: fallbackID,
		logger:     logger,
	}
}

// Fetch returns the record for id. It never fails: on any error the
// fallback record is returned with its name marked as a fallback.
func (f *DetailFetcher) Fetch(ctx context.Context, id int) model.Incident {
	inc, err := f.Resolve(ctx, id)
	if err == nil {
		return inc
	}

	f.logger.Warn("detail fetch failed, using fallback",
		"id", id,
		"source", f.source.Location(),
		"error", err,
	)

	if f.fallbackID != model.FallbackID && f.fallbackID != id {
		fb, fbErr := f.Resolve(ctx, f.fallbackID)
		if fbErr == nil {
			fb.Name += model.FallbackSuffix
			fb.Fallback = true
			return fb
		}
		f.logger.Warn("fallback record unavailable", "id", f.fallbackID, "error", fbErr)
	}

	return Fallback()
}

// Resolve fetches, decodes and normalizes the record for id, reporting failures.
// A cached entry that no longer decodes is dropped and the source consulted instead.
func (f *DetailFetcher) Resolve(ctx context.Context, id int) (model.Incident, error) {
	key := cache.CacheKey(f.source.Location(), id)

	if data, ok := f.lookup(key); ok {
		inc, err := decodeRecord(id, data)
		if err == nil {
			return inc, nil
		}
		f.logger.Debug("dropping corrupt cache entry", "id", id, "error", err)
		_ = f.cache.Delete(key)
	}

	data, err := f.source.Get(ctx, id)
	if err != nil {
		return model.Incident{}, err
	}
	inc, err := decodeRecord(id, data)
	if err != nil {
		return model.Incident{}, err
	}

	if f.cache != nil {
		if err := f.cache.Set(key, data, 0); err != nil {
			f.logger.Debug("cache write failed", "id", id, "error", err)
		}
	}
	return inc, nil
}

func decodeRecord(id int, data []byte) (model.Incident, error) {
	var inc model.Incident
	if err := json.Unmarshal(data, &inc); err != nil {
		return model.Incident{}, fmt.Errorf("decode record %d: %w", id, err)
	}
	if inc.ID == 0 {
		inc.ID = id
	}
	return Prettify(WithDefaults(inc)), nil
}

func (f *DetailFetcher) lookup(key string) ([]byte, bool) {
	if f.cache == nil {
		return nil, false
	}
	return f.cache.Get(key)
}
