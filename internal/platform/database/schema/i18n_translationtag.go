package schema

// TranslationTagTable represents the 'i18n.translationtag' association table
type TranslationTagTable struct {
	Table         string
	TranslationID string
	TagID         string
}

// TranslationTag is the schema definition for i18n.translationtag
var TranslationTag = TranslationTagTable{
	Table:         "i18n.translationtag",
	TranslationID: "translationid",
	TagID:         "tagid",
}
