package schema

// TagTable represents the 'i18n.tag' table
type TagTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// Tag is the schema definition for i18n.tag
var Tag = TagTable{
	Table:       "i18n.tag",
	ID:          "id",
	Name:        "name",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t TagTable) Columns() []string {
	return []string{t.ID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt}
}
