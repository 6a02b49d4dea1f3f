package translation

import (
	"sort"
	"time"
)

// ExportFormatVersion identifies the snapshot wire format.
const ExportFormatVersion = "1.0"

// ExportSnapshot is the frontend-facing bundle of every translation, grouped
// by locale then key.
type ExportSnapshot struct {
	Translations map[string]map[string]string `json:"translations"`
	Locales      []string                     `json:"locales"`

	// TotalKeys is the size of the largest per-locale map, approximating the
	// distinct key count when locales are fully translated.
	TotalKeys int `json:"totalKeys"`

	// TotalTranslations is the number of rows in the snapshot.
	TotalTranslations int `json:"totalTranslations"`

	GeneratedAt time.Time `json:"generatedAt"`
	Version     string    `json:"version"`
	CDNURL      string    `json:"cdnUrl,omitempty"`
	CacheTTL    int64     `json:"cacheTtl"`
}

// BuildExportSnapshot groups rows into the nested locale -> key -> content
// shape and derives the snapshot statistics.
func BuildExportSnapshot(rows []ExportRow, now time.Time) *ExportSnapshot {
	grouped := make(map[string]map[string]string)
	for _, row := range rows {
		byKey, ok := grouped[row.Locale]
		if !ok {
			byKey = make(map[string]string)
			grouped[row.Locale] = byKey
		}
		byKey[row.Key] = row.Content
	}

	locales := make([]string, 0, len(grouped))
	totalKeys := 0
	totalTranslations := 0
	for locale, byKey := range grouped {
		locales = append(locales, locale)
		if len(byKey) > totalKeys {
			totalKeys = len(byKey)
		}
		totalTranslations += len(byKey)
	}
	sort.Strings(locales)

	return &ExportSnapshot{
		Translations:      grouped,
		Locales:           locales,
		TotalKeys:         totalKeys,
		TotalTranslations: totalTranslations,
		GeneratedAt:       now,
		Version:           ExportFormatVersion,
	}
}

// CDNExportURL builds the published snapshot location for the given optional
// locale filter.
func CDNExportURL(baseURL, locale string) string {
	if locale != "" {
		return baseURL + "/translations/export_" + locale + ".json"
	}
	return baseURL + "/translations/export.json"
}
