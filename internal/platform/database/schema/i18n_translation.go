package schema

// TranslationTable represents the 'i18n.translation' table
type TranslationTable struct {
	Table     string
	ID        string
	Key       string
	Locale    string
	Content   string
	Version   string
	CreatedAt string
	UpdatedAt string
}

// Translation is the schema definition for i18n.translation
var Translation = TranslationTable{
	Table:     "i18n.translation",
	ID:        "id",
	Key:       "key",
	Locale:    "locale",
	Content:   "content",
	Version:   "version",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t TranslationTable) Columns() []string {
	return []string{t.ID, t.Key, t.Locale, t.Content, t.Version, t.CreatedAt, t.UpdatedAt}
}
