package translation

import (
	"context"

	"github.com/polyglothq/polyglot/pkg/pagination"
)

// ExportRow is the minimal projection streamed out of the store when building
// an export snapshot.
type ExportRow struct {
	Key     string
	Locale  string
	Content string
}

type Repository interface {
	// Create persists the translation and its tag associations atomically.
	Create(context context.Context, translation *Translation) error

	// Update persists changes guarded by the translation's current Version.
	// It returns apperr.StaleVersion when the row moved on since the caller
	// read it, and dberr.ErrNotFound when the row no longer exists. Tag
	// associations are fully replaced.
	Update(context context.Context, translation *Translation) error

	FindByID(context context.Context, id string) (*Translation, error)
	FindByKeyAndLocale(context context.Context, key, locale string) (*Translation, error)
	ExistsByKeyAndLocale(context context.Context, key, locale string) (bool, error)
	Delete(context context.Context, id string) error

	Search(context context.Context, filter Filter, params pagination.Params) ([]*Translation, int, error)
	ListByLocale(context context.Context, locale string, params pagination.Params) ([]*Translation, int, error)

	DistinctLocales(context context.Context) ([]string, error)
	CountByLocale(context context.Context, locale string) (int64, error)

	// ListForExport returns every (key, locale, content) row ordered by locale
	// then key. An empty locale selects all locales.
	ListForExport(context context.Context, locale string) ([]ExportRow, error)
}
