package translation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polyglothq/polyglot/internal/platform/constants"
)

// RedisCache is the Redis-backed [Cache]. Values are stored as JSON under
// region-prefixed keys inside [constants.CacheNamespace], so a single SCAN
// pattern covers every region during eviction.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (cache *RedisCache) GetByID(context context.Context, id string) (*Translation, bool) {
	translation := &Translation{}
	if !cache.get(context, constants.CacheRegionByID+id, translation) {
		return nil, false
	}
	return translation, true
}

func (cache *RedisCache) SetByID(context context.Context, translation *Translation) {
	cache.set(context, constants.CacheRegionByID+translation.ID, translation)
}

func (cache *RedisCache) GetByKeyAndLocale(context context.Context, key, locale string) (*Translation, bool) {
	translation := &Translation{}
	if !cache.get(context, keyLocaleCacheKey(key, locale), translation) {
		return nil, false
	}
	return translation, true
}

func (cache *RedisCache) SetByKeyAndLocale(context context.Context, translation *Translation) {
	cache.set(context, keyLocaleCacheKey(translation.Key, translation.Locale), translation)
}

func (cache *RedisCache) GetLocales(context context.Context) ([]string, bool) {
	var locales []string
	if !cache.get(context, constants.CacheRegionLocales, &locales) {
		return nil, false
	}
	return locales, true
}

func (cache *RedisCache) SetLocales(context context.Context, locales []string) {
	cache.set(context, constants.CacheRegionLocales, locales)
}

func (cache *RedisCache) GetExport(context context.Context, locale string) (*ExportSnapshot, bool) {
	snapshot := &ExportSnapshot{}
	if !cache.get(context, exportCacheKey(locale), snapshot) {
		return nil, false
	}
	return snapshot, true
}

func (cache *RedisCache) SetExport(context context.Context, locale string, snapshot *ExportSnapshot) {
	cache.set(context, exportCacheKey(locale), snapshot)
}

// EvictAll walks the cache namespace with SCAN and deletes every key it
// finds. SCAN keeps the server responsive on large keyspaces where a single
// KEYS call would block.
func (cache *RedisCache) EvictAll(context context.Context) error {
	iter := cache.client.Scan(context, 0, constants.CacheNamespace+"*", 100).Iterator()

	for iter.Next(context) {
		if err := cache.client.Del(context, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// get reads and decodes the value at key. Backend and decode failures are
// reported as cache misses.
func (cache *RedisCache) get(context context.Context, key string, target any) bool {
	payload, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, target) == nil
}

// set encodes and stores the value under key with the configured TTL. Failures
// are dropped; the next read falls through to the store.
func (cache *RedisCache) set(context context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	cache.client.Set(context, key, payload, cache.ttl)
}

func keyLocaleCacheKey(key, locale string) string {
	return constants.CacheRegionByKeyLocale + key + "_" + locale
}

func exportCacheKey(locale string) string {
	if locale == "" {
		return constants.CacheRegionExport + "all"
	}
	return constants.CacheRegionExport + locale
}
