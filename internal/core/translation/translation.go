package translation

import (
	"time"

	"github.com/polyglothq/polyglot/internal/core/tag"
	"github.com/polyglothq/polyglot/internal/platform/database/schema"
)

// Translation is a localized snippet addressed by its (key, locale) pair.
// Version increments on every successful update and backs the optimistic
// concurrency check.
type Translation struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Locale    string    `json:"locale"`
	Content   string    `json:"content"`
	Tags      []tag.Tag `json:"tags"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows a translation search. Empty fields are skipped, populated
// fields combine with AND.
type Filter struct {
	Key     string
	Locale  string
	Content string
	TagName string
}

// searchSortColumn whitelists the public sort field names for search queries.
// Unknown fields fall back to the update timestamp, matching the default
// ordering of the search endpoint.
func searchSortColumn(field string) string {
	switch field {
	case "key":
		return schema.Translation.Key
	case "locale":
		return schema.Translation.Locale
	case "content":
		return schema.Translation.Content
	case "createdAt":
		return schema.Translation.CreatedAt
	case "updatedAt":
		return schema.Translation.UpdatedAt
	case "version":
		return schema.Translation.Version
	}
	return schema.Translation.UpdatedAt
}
