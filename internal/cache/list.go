// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache for collection responses.
// GET /articles, /listings and /categories are served from here until a
// write to the same collection invalidates the entry. Detail views are
// never cached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached collections.
	listKeyPrefix = "list:"

	// genKeyPrefix holds each collection's invalidation counter.
	genKeyPrefix = "listgen:"

	// DefaultListTTL is how long a collection stays cached.
	DefaultListTTL = 5 * time.Minute
)

// Collection keys.
const (
	KeyArticles   = "articles"
	KeyListings   = "listings"
	KeyCategories = "categories"
)

var collections = []string{KeyArticles, KeyListings, KeyCategories}

// ListCache stores JSON-encoded collections in Valkey. A nil *ListCache is
// valid and never hits, so callers need no special case when caching is off.
//
// Every invalidation bumps a per-collection generation. A fill is written
// only if the generation it read before loading is still current, so a
// list loaded before a concurrent write is never cached after it.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a new list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Fetch returns the cached collection under key or, on a miss, calls load
// and caches its result. Cache failures fall through to load.
func Fetch[T any](ctx context.Context, lc *ListCache, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if lc == nil {
		return load(ctx)
	}
	if lc.get(ctx, key, &v) {
		return v, nil
	}

	gen, ok := lc.generation(ctx, key)
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if ok {
		lc.setIfCurrent(ctx, key, gen, v)
	}
	return v, nil
}

// get decodes the cached collection into dst. It reports false on a miss,
// on a Valkey error and on a payload that no longer decodes.
func (lc *ListCache) get(ctx context.Context, key string, dst any) bool {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("list cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("list cache hit", "key", key)
	return true
}

// generation reads the invalidation counter of key. A missing counter is 0.
func (lc *ListCache) generation(ctx context.Context, key string) (int64, bool) {
	gen, err := lc.client.Get(ctx, genKeyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Warn("list cache generation error", "key", key, "error", err)
		return 0, false
	}
	return gen, true
}

// setIfCurrent stores v under key unless the collection was invalidated
// after gen was read.
func (lc *ListCache) setIfCurrent(ctx context.Context, key string, gen int64, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("list cache encode error", "key", key, "error", err)
		return
	}

	genKey := genKeyPrefix + key
	err = lc.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, listKeyPrefix+key, data, lc.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		slog.Debug("list cache fill skipped, collection changed", "key", key)
	default:
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

var errStale = errors.New("list cache: stale fill")

// Invalidate removes the given collections and bumps their generations.
func (lc *ListCache) Invalidate(ctx context.Context, keys ...string) {
	if lc == nil || len(keys) == 0 {
		return
	}
	_, err := lc.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, genKeyPrefix+k)
			p.Del(ctx, listKeyPrefix+k)
		}
		return nil
	})
	if err != nil {
		slog.Warn("list cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("list cache invalidated", "keys", keys)
}

// InvalidateAll invalidates every collection. Used after bulk writes that
// bypass the HTTP handlers.
func (lc *ListCache) InvalidateAll(ctx context.Context) {
	lc.Invalidate(ctx, collections...)
}
