// Copyright (c) 2026 Polyglot Labs. All rights reserved.

package translation_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglothq/polyglot/internal/core/tag"
	"github.com/polyglothq/polyglot/internal/core/translation"
	"github.com/polyglothq/polyglot/internal/platform/apperr"
	"github.com/polyglothq/polyglot/internal/platform/config"
	"github.com/polyglothq/polyglot/internal/platform/dberr"
	"github.com/polyglothq/polyglot/pkg/pagination"
	"github.com/polyglothq/polyglot/pkg/pointer"
	"github.com/polyglothq/polyglot/pkg/uuidv7"
)

// # Fakes

// fakeRepository is an in-memory Repository enforcing the same invariants as
// the Postgres store: unique (key, locale) and version-guarded updates.
type fakeRepository struct {
	byID map[string]*translation.Translation

	findByIDCalls int
	localesCalls  int
	exportCalls   int

	// beforeUpdate runs at the start of Update, letting tests interleave a
	// concurrent writer between the service's read and its guarded write.
	beforeUpdate func()
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*translation.Translation)}
}

func (f *fakeRepository) Create(_ context.Context, t *translation.Translation) error {
	for _, existing := range f.byID {
		if existing.Key == t.Key && existing.Locale == t.Locale {
			return apperr.Conflict("Resource already exists")
		}
	}
	copied := *t
	f.byID[t.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, t *translation.Translation) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	stored, ok := f.byID[t.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	if stored.Version != t.Version {
		return apperr.StaleVersion("Translation was modified concurrently")
	}
	t.Version++
	copied := *t
	f.byID[t.ID] = &copied
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*translation.Translation, error) {
	f.findByIDCalls++
	stored, ok := f.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeRepository) FindByKeyAndLocale(_ context.Context, key, locale string) (*translation.Translation, error) {
	for _, stored := range f.byID {
		if stored.Key == key && stored.Locale == locale {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) ExistsByKeyAndLocale(_ context.Context, key, locale string) (bool, error) {
	for _, stored := range f.byID {
		if stored.Key == key && stored.Locale == locale {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepository) Search(_ context.Context, filter translation.Filter, params pagination.Params) ([]*translation.Translation, int, error) {
	matched := make([]*translation.Translation, 0)
	for _, stored := range f.byID {
		if filter.Locale != "" && stored.Locale != filter.Locale {
			continue
		}
		copied := *stored
		matched = append(matched, &copied)
	}
	return matched, len(matched), nil
}

func (f *fakeRepository) ListByLocale(_ context.Context, locale string, params pagination.Params) ([]*translation.Translation, int, error) {
	return f.Search(context.Background(), translation.Filter{Locale: locale}, params)
}

func (f *fakeRepository) DistinctLocales(_ context.Context) ([]string, error) {
	f.localesCalls++
	seen := make(map[string]struct{})
	locales := make([]string, 0)
	for _, stored := range f.byID {
		if _, ok := seen[stored.Locale]; !ok {
			seen[stored.Locale] = struct{}{}
			locales = append(locales, stored.Locale)
		}
	}
	return locales, nil
}

func (f *fakeRepository) CountByLocale(_ context.Context, locale string) (int64, error) {
	var count int64
	for _, stored := range f.byID {
		if stored.Locale == locale {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) ListForExport(_ context.Context, locale string) ([]translation.ExportRow, error) {
	f.exportCalls++
	rows := make([]translation.ExportRow, 0)
	for _, stored := range f.byID {
		if locale != "" && stored.Locale != locale {
			continue
		}
		rows = append(rows, translation.ExportRow{Key: stored.Key, Locale: stored.Locale, Content: stored.Content})
	}
	return rows, nil
}

// fakeCache is an in-memory Cache recording evictions.
type fakeCache struct {
	byID      map[string]*translation.Translation
	byKL      map[string]*translation.Translation
	locales   []string
	exports   map[string]*translation.ExportSnapshot
	evictions int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		byID:    make(map[string]*translation.Translation),
		byKL:    make(map[string]*translation.Translation),
		exports: make(map[string]*translation.ExportSnapshot),
	}
}

func (f *fakeCache) GetByID(_ context.Context, id string) (*translation.Translation, bool) {
	cached, ok := f.byID[id]
	return cached, ok
}

func (f *fakeCache) SetByID(_ context.Context, t *translation.Translation) {
	f.byID[t.ID] = t
}

func (f *fakeCache) GetByKeyAndLocale(_ context.Context, key, locale string) (*translation.Translation, bool) {
	cached, ok := f.byKL[key+"_"+locale]
	return cached, ok
}

func (f *fakeCache) SetByKeyAndLocale(_ context.Context, t *translation.Translation) {
	f.byKL[t.Key+"_"+t.Locale] = t
}

func (f *fakeCache) GetLocales(_ context.Context) ([]string, bool) {
	return f.locales, f.locales != nil
}

func (f *fakeCache) SetLocales(_ context.Context, locales []string) {
	f.locales = locales
}

func (f *fakeCache) GetExport(_ context.Context, locale string) (*translation.ExportSnapshot, bool) {
	cached, ok := f.exports[locale]
	return cached, ok
}

func (f *fakeCache) SetExport(_ context.Context, locale string, snapshot *translation.ExportSnapshot) {
	f.exports[locale] = snapshot
}

func (f *fakeCache) EvictAll(_ context.Context) error {
	f.evictions++
	f.byID = make(map[string]*translation.Translation)
	f.byKL = make(map[string]*translation.Translation)
	f.locales = nil
	f.exports = make(map[string]*translation.ExportSnapshot)
	return nil
}

// fakeTagRepository backs the tag resolver in service tests.
type fakeTagRepository struct {
	byName map[string]*tag.Tag
}

func newFakeTagRepository() *fakeTagRepository {
	return &fakeTagRepository{byName: make(map[string]*tag.Tag)}
}

func (f *fakeTagRepository) Create(_ context.Context, t *tag.Tag) error {
	if _, ok := f.byName[t.Name]; ok {
		return tag.ErrDuplicateName
	}
	copied := *t
	f.byName[t.Name] = &copied
	return nil
}

func (f *fakeTagRepository) FindByName(_ context.Context, name string) (*tag.Tag, error) {
	if existing, ok := f.byName[name]; ok {
		copied := *existing
		return &copied, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeTagRepository) List(_ context.Context, _ pagination.Params) ([]*tag.Tag, int, error) {
	return nil, 0, nil
}

func (f *fakeTagRepository) SearchByName(_ context.Context, _ string, _ pagination.Params) ([]*tag.Tag, int, error) {
	return nil, 0, nil
}

func (f *fakeTagRepository) ListByTranslationKey(_ context.Context, _ string) ([]*tag.Tag, error) {
	return nil, nil
}

// # Harness

type serviceHarness struct {
	service *translation.Service
	repo    *fakeRepository
	cache   *fakeCache
}

func newServiceHarness(cfg *config.Config) *serviceHarness {
	repo := newFakeRepository()
	cache := newFakeCache()
	resolver := tag.NewResolver(newFakeTagRepository())

	return &serviceHarness{
		service: translation.NewService(repo, resolver, cache, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))),
		repo:    repo,
		cache:   cache,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		CacheTTLSeconds: 300,
		MaxExportSize:   100000,
	}
}

// # Create

func TestService_CreateTranslation(t *testing.T) {
	h := newServiceHarness(testConfig())

	created, err := h.service.CreateTranslation(context.Background(), translation.Input{
		Key:      "app.login.title",
		Locale:   "en",
		Content:  "Login",
		TagNames: []string{"frontend", "auth"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(0), created.Version)
	assert.Len(t, created.Tags, 2)
	assert.Equal(t, 1, h.cache.evictions, "a committed create must evict the cache")
}

func TestService_CreateTranslation_DuplicatePair(t *testing.T) {
	h := newServiceHarness(testConfig())

	input := translation.Input{Key: "app.login.title", Locale: "en", Content: "Login"}
	_, err := h.service.CreateTranslation(context.Background(), input)
	require.NoError(t, err)

	_, err = h.service.CreateTranslation(context.Background(), input)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

func TestService_CreateTranslation_SameKeyOtherLocale(t *testing.T) {
	h := newServiceHarness(testConfig())

	_, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.login.title", Locale: "en", Content: "Login"})
	require.NoError(t, err)

	_, err = h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.login.title", Locale: "fr", Content: "Connexion"})
	assert.NoError(t, err, "the same key under a different locale is a distinct translation")
}

func TestService_CreateTranslation_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input translation.Input
	}{
		{"missing_key", translation.Input{Locale: "en", Content: "x"}},
		{"missing_locale", translation.Input{Key: "a.b", Content: "x"}},
		{"missing_content", translation.Input{Key: "a.b", Locale: "en"}},
		{"malformed_locale", translation.Input{Key: "a.b", Locale: "not a locale!", Content: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newServiceHarness(testConfig())

			_, err := h.service.CreateTranslation(context.Background(), tt.input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

// # Update

func TestService_UpdateTranslation(t *testing.T) {
	h := newServiceHarness(testConfig())

	created, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.login.title", Locale: "en", Content: "Login"})
	require.NoError(t, err)

	updated, err := h.service.UpdateTranslation(context.Background(), created.ID, translation.Input{
		Key:      "app.login.title",
		Locale:   "en",
		Content:  "Sign In",
		TagNames: []string{"frontend"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sign In", updated.Content)
	assert.Equal(t, int64(1), updated.Version)
	assert.Len(t, updated.Tags, 1)
}

func TestService_UpdateTranslation_NotFound(t *testing.T) {
	h := newServiceHarness(testConfig())

	_, err := h.service.UpdateTranslation(context.Background(), uuidv7.New(), translation.Input{Key: "a.b", Locale: "en", Content: "x"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

func TestService_UpdateTranslation_TargetPairTaken(t *testing.T) {
	h := newServiceHarness(testConfig())

	_, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)
	second, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.b", Locale: "en", Content: "B"})
	require.NoError(t, err)

	// Moving app.b onto app.a's address must conflict.
	_, err = h.service.UpdateTranslation(context.Background(), second.ID, translation.Input{Key: "app.a", Locale: "en", Content: "B"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

func TestService_UpdateTranslation_ConcurrentWriterLoses(t *testing.T) {
	h := newServiceHarness(testConfig())

	created, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)

	// An interleaved writer commits between this update's read and its
	// guarded write.
	h.repo.beforeUpdate = func() {
		h.repo.byID[created.ID].Version++
		h.repo.beforeUpdate = nil
	}

	_, err = h.service.UpdateTranslation(context.Background(), created.ID, translation.Input{Key: "app.a", Locale: "en", Content: "B"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VERSION_CONFLICT", ae.Code)
}

func TestService_UpdateTranslation_StaleExpectedVersion(t *testing.T) {
	h := newServiceHarness(testConfig())

	created, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)

	// Move the row to version 1.
	_, err = h.service.UpdateTranslation(context.Background(), created.ID, translation.Input{Key: "app.a", Locale: "en", Content: "B"})
	require.NoError(t, err)

	// A caller still holding version 0 must not overwrite the newer row.
	_, err = h.service.UpdateTranslation(context.Background(), created.ID, translation.Input{
		Key: "app.a", Locale: "en", Content: "C", Version: pointer.To(int64(0)),
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VERSION_CONFLICT", ae.Code)

	fresh, err := h.service.GetTranslation(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", fresh.Content, "the losing write must leave the row unchanged")
}

// # Delete

func TestService_DeleteTranslation(t *testing.T) {
	h := newServiceHarness(testConfig())

	created, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)

	evictionsBefore := h.cache.evictions
	require.NoError(t, h.service.DeleteTranslation(context.Background(), created.ID))
	assert.Equal(t, evictionsBefore+1, h.cache.evictions)

	_, err = h.service.GetTranslation(context.Background(), created.ID)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

func TestService_DeleteTranslation_NotFound(t *testing.T) {
	h := newServiceHarness(testConfig())

	err := h.service.DeleteTranslation(context.Background(), uuidv7.New())
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

// # Read-Through Caching

func TestService_GetTranslation_ReadThrough(t *testing.T) {
	h := newServiceHarness(testConfig())

	created, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)

	callsBefore := h.repo.findByIDCalls

	// Miss populates the cache.
	first, err := h.service.GetTranslation(context.Background(), created.ID)
	require.NoError(t, err)

	// Hit bypasses the store.
	second, err := h.service.GetTranslation(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, callsBefore+1, h.repo.findByIDCalls)
}

func TestService_GetAvailableLocales_Cached(t *testing.T) {
	h := newServiceHarness(testConfig())

	_, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)

	callsBefore := h.repo.localesCalls

	first, err := h.service.GetAvailableLocales(context.Background())
	require.NoError(t, err)
	second, err := h.service.GetAvailableLocales(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsBefore+1, h.repo.localesCalls)
}

func TestService_WriteInvalidatesCachedReads(t *testing.T) {
	h := newServiceHarness(testConfig())

	created, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)

	// Warm the cache.
	_, err = h.service.GetTranslation(context.Background(), created.ID)
	require.NoError(t, err)

	// The update evicts it; the next read must observe the new content.
	_, err = h.service.UpdateTranslation(context.Background(), created.ID, translation.Input{Key: "app.a", Locale: "en", Content: "B"})
	require.NoError(t, err)

	fresh, err := h.service.GetTranslation(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", fresh.Content)
}

// # Export

func TestService_ExportTranslations(t *testing.T) {
	cfg := testConfig()
	cfg.CDNEnabled = true
	cfg.CDNBaseURL = "https://cdn.example.com"
	h := newServiceHarness(cfg)

	_, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)
	_, err = h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "fr", Content: "Á"})
	require.NoError(t, err)

	snapshot, err := h.service.ExportTranslations(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.TotalTranslations)
	assert.Equal(t, []string{"en", "fr"}, snapshot.Locales)
	assert.Equal(t, "https://cdn.example.com/translations/export.json", snapshot.CDNURL)
	assert.Equal(t, int64(300), snapshot.CacheTTL)
}

func TestService_ExportTranslations_LocaleFilter(t *testing.T) {
	cfg := testConfig()
	cfg.CDNEnabled = true
	cfg.CDNBaseURL = "https://cdn.example.com"
	h := newServiceHarness(cfg)

	_, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)
	_, err = h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "fr", Content: "Á"})
	require.NoError(t, err)

	snapshot, err := h.service.ExportTranslations(context.Background(), "fr")
	require.NoError(t, err)

	assert.Equal(t, []string{"fr"}, snapshot.Locales)
	assert.Equal(t, 1, snapshot.TotalTranslations)
	assert.Equal(t, "https://cdn.example.com/translations/export_fr.json", snapshot.CDNURL)
}

func TestService_ExportTranslations_Cached(t *testing.T) {
	h := newServiceHarness(testConfig())

	_, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)

	callsBefore := h.repo.exportCalls

	_, err = h.service.ExportTranslations(context.Background(), "")
	require.NoError(t, err)
	_, err = h.service.ExportTranslations(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, callsBefore+1, h.repo.exportCalls)
}

// # Search

func TestService_SearchTranslations_LocaleFilter(t *testing.T) {
	h := newServiceHarness(testConfig())

	_, err := h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "en", Content: "A"})
	require.NoError(t, err)
	_, err = h.service.CreateTranslation(context.Background(), translation.Input{Key: "app.a", Locale: "fr", Content: "Á"})
	require.NoError(t, err)

	page, err := h.service.SearchTranslations(context.Background(),
		translation.Filter{Locale: "en"},
		pagination.Params{Page: 0, Size: 20, SortBy: "updatedAt", SortDirection: pagination.SortDesc},
	)
	require.NoError(t, err)

	assert.Equal(t, 1, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
}
