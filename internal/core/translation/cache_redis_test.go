// Copyright (c) 2026 Polyglot Labs. All rights reserved.

package translation_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglothq/polyglot/internal/core/translation"
)

func TestRedisCache_GetByID(t *testing.T) {
	cached := &translation.Translation{ID: "11111111-2222-7333-8444-555555555555", Key: "app.title", Locale: "en", Content: "Polyglot"}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	t.Run("hit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := translation.NewRedisCache(client, time.Minute)

		mock.ExpectGet("i18n:cache:translation:id:" + cached.ID).SetVal(string(payload))

		got, ok := cache.GetByID(context.Background(), cached.ID)
		require.True(t, ok)
		assert.Equal(t, cached.Content, got.Content)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := translation.NewRedisCache(client, time.Minute)

		mock.ExpectGet("i18n:cache:translation:id:" + cached.ID).RedisNil()

		_, ok := cache.GetByID(context.Background(), cached.ID)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt_payload_is_a_miss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := translation.NewRedisCache(client, time.Minute)

		mock.ExpectGet("i18n:cache:translation:id:" + cached.ID).SetVal("{not json")

		_, ok := cache.GetByID(context.Background(), cached.ID)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCache_SetByID(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := translation.NewRedisCache(client, time.Minute)

	cached := &translation.Translation{ID: "11111111-2222-7333-8444-555555555555", Key: "app.title", Locale: "en", Content: "Polyglot"}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mock.ExpectSet("i18n:cache:translation:id:"+cached.ID, payload, time.Minute).SetVal("OK")

	cache.SetByID(context.Background(), cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_KeyLocaleRegion(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := translation.NewRedisCache(client, time.Minute)

	cached := &translation.Translation{ID: "11111111-2222-7333-8444-555555555555", Key: "app.title", Locale: "en", Content: "Polyglot"}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	// The natural address maps to key_locale inside its region.
	mock.ExpectSet("i18n:cache:translation:kl:app.title_en", payload, time.Minute).SetVal("OK")
	mock.ExpectGet("i18n:cache:translation:kl:app.title_en").SetVal(string(payload))

	cache.SetByKeyAndLocale(context.Background(), cached)

	got, ok := cache.GetByKeyAndLocale(context.Background(), "app.title", "en")
	require.True(t, ok)
	assert.Equal(t, cached.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Locales(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := translation.NewRedisCache(client, time.Minute)

	locales := []string{"de", "en", "fr"}
	payload, err := json.Marshal(locales)
	require.NoError(t, err)

	mock.ExpectSet("i18n:cache:locales", payload, time.Minute).SetVal("OK")
	mock.ExpectGet("i18n:cache:locales").SetVal(string(payload))

	cache.SetLocales(context.Background(), locales)

	got, ok := cache.GetLocales(context.Background())
	require.True(t, ok)
	assert.Equal(t, locales, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_ExportRegionKeys(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		key    string
	}{
		{"all_locales", "", "i18n:cache:export:all"},
		{"single_locale", "fr", "i18n:cache:export:fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			cache := translation.NewRedisCache(client, time.Minute)

			snapshot := &translation.ExportSnapshot{Version: translation.ExportFormatVersion}
			payload, err := json.Marshal(snapshot)
			require.NoError(t, err)

			mock.ExpectSet(tt.key, payload, time.Minute).SetVal("OK")
			mock.ExpectGet(tt.key).SetVal(string(payload))

			cache.SetExport(context.Background(), tt.locale, snapshot)

			got, ok := cache.GetExport(context.Background(), tt.locale)
			require.True(t, ok)
			assert.Equal(t, translation.ExportFormatVersion, got.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisCache_EvictAll(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := translation.NewRedisCache(client, time.Minute)

	keys := []string{
		"i18n:cache:translation:id:11111111-2222-7333-8444-555555555555",
		"i18n:cache:locales",
		"i18n:cache:export:all",
	}

	mock.ExpectScan(0, "i18n:cache:*", 100).SetVal(keys, 0)
	for _, key := range keys {
		mock.ExpectDel(key).SetVal(1)
	}

	require.NoError(t, cache.EvictAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SwallowsBackendErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := translation.NewRedisCache(client, time.Minute)

	mock.ExpectGet("i18n:cache:locales").SetErr(assert.AnError)

	_, ok := cache.GetLocales(context.Background())
	assert.False(t, ok, "a failing backend reads as a miss")
	assert.NoError(t, mock.ExpectationsWereMet())
}
