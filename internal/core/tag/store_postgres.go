package tag

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polyglothq/polyglot/internal/platform/database/schema"
	"github.com/polyglothq/polyglot/internal/platform/dberr"
	"github.com/polyglothq/polyglot/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// sortColumn maps the public sort field names onto physical columns. Anything
// outside the whitelist falls back to the creation timestamp.
func sortColumn(field string) string {
	switch field {
	case "name":
		return schema.Tag.Name
	case "createdAt":
		return schema.Tag.CreatedAt
	case "updatedAt":
		return schema.Tag.UpdatedAt
	}
	return schema.Tag.CreatedAt
}

func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s, %s`,
		schema.Tag.Table,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.Description,
		schema.Tag.CreatedAt, schema.Tag.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, tag.ID, tag.Name, tag.Description).
		Scan(&tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return dberr.Wrap(err, "create_tag")
	}
	return nil
}

func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.Tag.Columns(), ", "), schema.Tag.Table, schema.Tag.Name)

	tag := &Tag{}
	err := repository.db.QueryRow(context, query, name).
		Scan(&tag.ID, &tag.Name, &tag.Description, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find_tag_by_name")
	}
	return tag, nil
}

func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*Tag, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s %s, %s
		LIMIT $1 OFFSET $2
	`,
		strings.Join(schema.Tag.Columns(), ", "),
		schema.Tag.Table,
		sortColumn(params.SortBy), strings.ToUpper(params.SortDirection), schema.Tag.ID,
	)

	return repository.queryTags(context, "list_tags", query, params.Size, params.Offset())
}

func (repository *PostgresRepository) SearchByName(context context.Context, name string, params pagination.Params) ([]*Tag, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s ILIKE '%%' || $1 || '%%'
		ORDER BY %s %s, %s
		LIMIT $2 OFFSET $3
	`,
		strings.Join(schema.Tag.Columns(), ", "),
		schema.Tag.Table,
		schema.Tag.Name,
		sortColumn(params.SortBy), strings.ToUpper(params.SortDirection), schema.Tag.ID,
	)

	return repository.queryTags(context, "search_tags", query, name, params.Size, params.Offset())
}

// ListByTranslationKey returns the distinct tags attached to any locale variant
// of the given translation key.
func (repository *PostgresRepository) ListByTranslationKey(context context.Context, key string) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT t.%s, t.%s, t.%s, t.%s, t.%s
		FROM %s t
		JOIN %s tt ON tt.%s = t.%s
		JOIN %s tr ON tr.%s = tt.%s
		WHERE tr.%s = $1
		ORDER BY t.%s ASC
	`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.Description, schema.Tag.CreatedAt, schema.Tag.UpdatedAt,
		schema.Tag.Table,
		schema.TranslationTag.Table, schema.TranslationTag.TagID, schema.Tag.ID,
		schema.Translation.Table, schema.Translation.ID, schema.TranslationTag.TranslationID,
		schema.Translation.Key,
		schema.Tag.Name,
	)

	rows, err := repository.db.Query(context, query, key)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags_by_translation_key")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		tag := &Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Description, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (repository *PostgresRepository) queryTags(context context.Context, action, query string, args ...any) ([]*Tag, int, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	var totalCount int
	for rows.Next() {
		tag := &Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Description, &tag.CreatedAt, &tag.UpdatedAt, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, tag)
	}
	return tags, totalCount, rows.Err()
}
