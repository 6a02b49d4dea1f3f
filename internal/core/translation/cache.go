package translation

import "context"

// Cache is the read-through layer in front of the store. Implementations must
// treat every backend failure as a miss on reads and as a no-op on writes so
// a degraded cache never takes the service down with it.
//
// EvictAll drops every region (translations, locales, exports) and is called
// synchronously after each committed write, so readers never observe a stale
// entry once the write has been acknowledged.
type Cache interface {
	GetByID(context context.Context, id string) (*Translation, bool)
	SetByID(context context.Context, translation *Translation)

	GetByKeyAndLocale(context context.Context, key, locale string) (*Translation, bool)
	SetByKeyAndLocale(context context.Context, translation *Translation)

	GetLocales(context context.Context) ([]string, bool)
	SetLocales(context context.Context, locales []string)

	GetExport(context context.Context, locale string) (*ExportSnapshot, bool)
	SetExport(context context.Context, locale string, snapshot *ExportSnapshot)

	EvictAll(context context.Context) error
}
