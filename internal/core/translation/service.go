package translation

import (
	"context"
	"log/slog"
	"time"

	"github.com/polyglothq/polyglot/internal/core/tag"
	"github.com/polyglothq/polyglot/internal/platform/apperr"
	"github.com/polyglothq/polyglot/internal/platform/config"
	"github.com/polyglothq/polyglot/internal/platform/constants"
	"github.com/polyglothq/polyglot/internal/platform/validate"
	"github.com/polyglothq/polyglot/pkg/pagination"
	"github.com/polyglothq/polyglot/pkg/pointer"
	"github.com/polyglothq/polyglot/pkg/slice"
	"github.com/polyglothq/polyglot/pkg/uuidv7"
)

// # Service Layer

// Input carries the writable attributes of a translation for create and
// update operations. TagNames are resolved to persisted tags on the fly.
// Version, when supplied on update, is the version the caller last read; the
// update fails with a version conflict if the row has moved past it.
type Input struct {
	Key      string   `json:"key"`
	Locale   string   `json:"locale"`
	Content  string   `json:"content"`
	TagNames []string `json:"tags"`
	Version  *int64   `json:"version,omitempty"`
}

// Service orchestrates the business logic of the translation engine. It owns
// validation, duplicate and concurrency checks, tag resolution, and the
// read-through cache discipline.
type Service struct {
	repo     Repository
	resolver *tag.Resolver
	cache    Cache
	logger   *slog.Logger

	cacheTTL      time.Duration
	maxExportSize int
	cdnEnabled    bool
	cdnBaseURL    string
}

// NewService constructs a new [Service] with its collaborators and the
// export/cache tuning taken from the runtime configuration.
func NewService(repo Repository, resolver *tag.Resolver, cache Cache, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		resolver:      resolver,
		cache:         cache,
		logger:        logger,
		cacheTTL:      cfg.CacheTTL(),
		maxExportSize: cfg.MaxExportSize,
		cdnEnabled:    cfg.CDNEnabled,
		cdnBaseURL:    cfg.CDNBaseURL,
	}
}

// # Translation Management

/*
CreateTranslation persists a new translation under its (key, locale) address.

Description: The pair is checked for duplicates before insert, tag names are
resolved to existing or freshly created tags, and the row plus its tag links
commit in one transaction. All cache regions are evicted after the commit so
no reader can observe the pre-create state from cache.

Parameters:
  - context: context.Context
  - input: Input (key, locale, content and tag names)

Returns:
  - *Translation: The persisted entity with identity and timestamps set
  - error: Validation failures, apperr.Conflict on a duplicate pair
*/
func (service *Service) CreateTranslation(context context.Context, input Input) (*Translation, error) {

	// Business attribute validation
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Duplicate (key, locale) pre-check
	exists, err := service.repo.ExistsByKeyAndLocale(context, input.Key, input.Locale)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Translation with key '" + input.Key + "' and locale '" + input.Locale + "' already exists")
	}

	// Tag name resolution
	tags, err := service.resolveTags(context, input.TagNames)
	if err != nil {
		return nil, err
	}

	translation := &Translation{
		ID:      uuidv7.New(),
		Key:     input.Key,
		Locale:  input.Locale,
		Content: input.Content,
		Tags:    tags,
	}

	// Persistence via Repository
	if err := service.repo.Create(context, translation); err != nil {
		return nil, err
	}

	service.evictCache(context)

	service.logger.Info("translation_created",
		slog.String("translation_id", translation.ID),
		slog.String("key", translation.Key),
		slog.String("locale", translation.Locale),
	)

	return translation, nil
}

/*
UpdateTranslation rewrites an existing translation and its tag set.

Description: The current row is loaded first. When the update moves the
translation to a different (key, locale) address, the target pair must be
free. The write is guarded by the expected version, which is the caller's
input version when supplied and the freshly loaded one otherwise: a
concurrent writer that commits in between surfaces as apperr.StaleVersion
rather than being silently overwritten. The tag set is fully replaced by the
resolved input names.

Parameters:
  - context: context.Context
  - id: string (Translation UUID)
  - input: Input (replacement attributes)

Returns:
  - *Translation: The updated entity with its incremented version
  - error: NotFound, Conflict on an occupied target pair, StaleVersion on a lost race
*/
func (service *Service) UpdateTranslation(context context.Context, id string, input Input) (*Translation, error) {

	// Business attribute validation
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Load the current row; its version guards the write below
	existing, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Occupancy check when moving to a new (key, locale) address
	if existing.Key != input.Key || existing.Locale != input.Locale {
		taken, err := service.repo.ExistsByKeyAndLocale(context, input.Key, input.Locale)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Translation with key '" + input.Key + "' and locale '" + input.Locale + "' already exists")
		}
	}

	// Tag name resolution (full replacement)
	tags, err := service.resolveTags(context, input.TagNames)
	if err != nil {
		return nil, err
	}

	existing.Key = input.Key
	existing.Locale = input.Locale
	existing.Content = input.Content
	existing.Tags = tags
	existing.Version = pointer.Fallback(input.Version, existing.Version)

	// Version-guarded storage update
	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.evictCache(context)

	service.logger.Info("translation_updated",
		slog.String("translation_id", existing.ID),
		slog.Int64("version", existing.Version),
	)

	return existing, nil
}

/*
DeleteTranslation removes a translation and its tag associations.

Parameters:
  - context: context.Context
  - id: string (Translation UUID)

Returns:
  - error: NotFound when no such row exists
*/
func (service *Service) DeleteTranslation(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.evictCache(context)

	service.logger.Info("translation_deleted", slog.String("translation_id", id))
	return nil
}

// # Translation Lookups

/*
GetTranslation fetches a single translation by UUID through the cache.

Description: A cache hit short-circuits the store entirely. On a miss the row
is loaded, hydrated with its tags, and written back to the cache region.
*/
func (service *Service) GetTranslation(context context.Context, id string) (*Translation, error) {

	// Cache fast path
	if cached, ok := service.cache.GetByID(context, id); ok {
		return cached, nil
	}

	translation, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	service.cache.SetByID(context, translation)
	return translation, nil
}

/*
GetTranslationByKeyAndLocale fetches a translation by its natural address
through the cache.
*/
func (service *Service) GetTranslationByKeyAndLocale(context context.Context, key, locale string) (*Translation, error) {

	// Cache fast path
	if cached, ok := service.cache.GetByKeyAndLocale(context, key, locale); ok {
		return cached, nil
	}

	translation, err := service.repo.FindByKeyAndLocale(context, key, locale)
	if err != nil {
		return nil, err
	}

	service.cache.SetByKeyAndLocale(context, translation)
	return translation, nil
}

/*
SearchTranslations retrieves a filtered, paginated slice of translations.

Description: Populated filter fields combine with AND; key and content match
as case-insensitive substrings, locale and tag name match exactly. Search
results are never cached since the filter space is unbounded.
*/
func (service *Service) SearchTranslations(context context.Context, filter Filter, params pagination.Params) (pagination.Page, error) {

	// Filter bounds validation
	validator := &validate.Validator{}
	validator.MaxLen("key", filter.Key, constants.MaxKeyLength)
	validator.MaxLen("locale", filter.Locale, constants.MaxLocaleLength)
	validator.MaxLen("content", filter.Content, constants.MaxContentLength)
	validator.MaxLen("tagName", filter.TagName, constants.MaxTagNameLength)
	if err := validator.Err(); err != nil {
		return pagination.Page{}, err
	}

	translations, total, err := service.repo.Search(context, filter, params)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(translations, params.Page, params.Size, total), nil
}

/*
GetTranslationsByLocale lists a locale's translations ordered by key.
*/
func (service *Service) GetTranslationsByLocale(context context.Context, locale string, params pagination.Params) (pagination.Page, error) {
	validator := &validate.Validator{}
	validator.Required("locale", locale).MaxLen("locale", locale, constants.MaxLocaleLength)
	if err := validator.Err(); err != nil {
		return pagination.Page{}, err
	}

	translations, total, err := service.repo.ListByLocale(context, locale, params)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(translations, params.Page, params.Size, total), nil
}

/*
GetAvailableLocales returns the distinct locales present in the store.
*/
func (service *Service) GetAvailableLocales(context context.Context) ([]string, error) {

	// Cache fast path
	if cached, ok := service.cache.GetLocales(context); ok {
		return cached, nil
	}

	locales, err := service.repo.DistinctLocales(context)
	if err != nil {
		return nil, err
	}

	service.cache.SetLocales(context, locales)
	return locales, nil
}

/*
GetTranslationCountByLocale returns the number of rows stored for a locale.
*/
func (service *Service) GetTranslationCountByLocale(context context.Context, locale string) (int64, error) {
	return service.repo.CountByLocale(context, locale)
}

// # Export

/*
ExportTranslations builds the frontend consumption snapshot.

Description: The snapshot groups every stored translation by locale then key
and is cached per locale filter. Snapshots larger than the configured export
ceiling are still served but logged, matching the soft-limit contract of the
endpoint. When a CDN mirror is configured the snapshot advertises its
published URL.

Parameters:
  - context: context.Context
  - locale: string (Optional single-locale filter, empty selects all)

Returns:
  - *ExportSnapshot: The grouped snapshot with totals and metadata
  - error: Validation or storage errors
*/
func (service *Service) ExportTranslations(context context.Context, locale string) (*ExportSnapshot, error) {

	// Locale bound validation
	validator := &validate.Validator{}
	validator.MaxLen("locale", locale, constants.MaxLocaleLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Cache fast path
	if cached, ok := service.cache.GetExport(context, locale); ok {
		return cached, nil
	}

	rows, err := service.repo.ListForExport(context, locale)
	if err != nil {
		return nil, err
	}

	if len(rows) > service.maxExportSize {
		service.logger.Warn("export_size_exceeded",
			slog.Int("rows", len(rows)),
			slog.Int("max", service.maxExportSize),
		)
	}

	snapshot := BuildExportSnapshot(rows, time.Now().UTC())
	snapshot.CacheTTL = int64(service.cacheTTL.Seconds())

	if service.cdnEnabled && service.cdnBaseURL != "" {
		snapshot.CDNURL = CDNExportURL(service.cdnBaseURL, locale)
	}

	service.cache.SetExport(context, locale, snapshot)

	service.logger.Info("translations_exported",
		slog.Int("total_translations", snapshot.TotalTranslations),
		slog.Int("locales", len(snapshot.Locales)),
	)

	return snapshot, nil
}

// # Internals

// resolveTags maps input names onto persisted tags via the resolver.
func (service *Service) resolveTags(context context.Context, names []string) ([]tag.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	resolved, err := service.resolver.Resolve(context, names)
	if err != nil {
		return nil, err
	}

	return slice.Map(resolved, func(t *tag.Tag) tag.Tag { return *t }), nil
}

// evictCache drops every cache region after a committed write. A failing
// cache backend is logged and tolerated; the store remains the source of
// truth.
func (service *Service) evictCache(context context.Context) {
	if err := service.cache.EvictAll(context); err != nil {
		service.logger.Warn("cache_evict_failed", slog.String("error", err.Error()))
	}
}

// validateInput enforces the field constraints shared by create and update.
func validateInput(input Input) error {
	validator := &validate.Validator{}

	validator.Required("key", input.Key).MaxLen("key", input.Key, constants.MaxKeyLength)
	validator.Required("locale", input.Locale).
		MaxLen("locale", input.Locale, constants.MaxLocaleLength).
		Locale("locale", input.Locale)
	validator.Required("content", input.Content).MaxLen("content", input.Content, constants.MaxContentLength)

	for _, name := range input.TagNames {
		validator.Required("tags", name).MaxLen("tags", name, constants.MaxTagNameLength)
	}

	return validator.Err()
}
