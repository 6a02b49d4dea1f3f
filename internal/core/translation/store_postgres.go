/*
Package translation implements the localized snippet engine.

The PostgreSQL store leans on a few engine features to keep hot paths to a
single round-trip:
  - JSON Aggregation: json_agg sub-queries hydrate tag associations without
    N+1 queries.
  - Window Functions: COUNT(*) OVER() returns result totals alongside the
    page rows.
  - ACID Transactions: translation rows and their junction rows commit or
    roll back together.
  - Optimistic Concurrency: updates are guarded by the row version and lost
    races surface as version conflicts instead of silent overwrites.
*/
package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polyglothq/polyglot/internal/platform/apperr"
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

// tagsSubquery aggregates a translation's tags into a JSON array. The outer
// query must alias i18n.translation as "tr".
func tagsSubquery() string {
	return fmt.Sprintf(`COALESCE((
			SELECT json_agg(json_build_object('id', t.%s, 'name', t.%s, 'description', t.%s) ORDER BY t.%s)
			FROM %s t
			JOIN %s tt ON t.%s = tt.%s
			WHERE tt.%s = tr.%s
		), '[]')`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.Description, schema.Tag.Name,
		schema.Tag.Table,
		schema.TranslationTag.Table, schema.Tag.ID, schema.TranslationTag.TagID,
		schema.TranslationTag.TranslationID, schema.Translation.ID,
	)
}

// translationColumns lists the scanned columns of the aliased root table.
func translationColumns() string {
	cols := schema.Translation.Columns()
	for i, col := range cols {
		cols[i] = "tr." + col
	}
	return strings.Join(cols, ", ")
}

func (repository *PostgresRepository) Create(context context.Context, translation *Translation) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_translation")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s
	`,
		schema.Translation.Table,
		schema.Translation.ID, schema.Translation.Key, schema.Translation.Locale,
		schema.Translation.Content, schema.Translation.Version,
		schema.Translation.CreatedAt, schema.Translation.UpdatedAt,
	)

	err = transaction.QueryRow(context, query,
		translation.ID, translation.Key, translation.Locale, translation.Content, translation.Version,
	).Scan(&translation.CreatedAt, &translation.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_translation")
	}

	if err := repository.replaceTagLinks(context, transaction, translation); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_translation")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, translation *Translation) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_translation")
	}
	defer transaction.Rollback(context)

	// The version predicate makes concurrent writers conflict instead of
	// overwriting each other. Exactly one of N racing updates matches.
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = %s + 1, %s = NOW()
		WHERE %s = $4 AND %s = $5
		RETURNING %s, %s
	`,
		schema.Translation.Table,
		schema.Translation.Key, schema.Translation.Locale, schema.Translation.Content,
		schema.Translation.Version, schema.Translation.Version, schema.Translation.UpdatedAt,
		schema.Translation.ID, schema.Translation.Version,
		schema.Translation.Version, schema.Translation.UpdatedAt,
	)

	err = transaction.QueryRow(context, query,
		translation.Key, translation.Locale, translation.Content,
		translation.ID, translation.Version,
	).Scan(&translation.Version, &translation.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.classifyMissedUpdate(context, translation.ID)
		}
		return dberr.Wrap(err, "update_translation")
	}

	if err := repository.replaceTagLinks(context, transaction, translation); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_translation")
	}
	return nil
}

// classifyMissedUpdate distinguishes a vanished row from a stale version after
// a guarded update matched nothing.
func (repository *PostgresRepository) classifyMissedUpdate(context context.Context, id string) error {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1`, schema.Translation.Table, schema.Translation.ID)

	var one int
	err := repository.db.QueryRow(context, query, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return dberr.ErrNotFound
	}
	if err != nil {
		return dberr.Wrap(err, "classify_missed_update")
	}
	return apperr.StaleVersion("Translation was modified concurrently")
}

// replaceTagLinks synchronizes the junction table with the translation's tag
// set using a clear-and-insert strategy inside the caller's transaction.
func (repository *PostgresRepository) replaceTagLinks(context context.Context, transaction pgx.Tx, translation *Translation) error {
	delQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.TranslationTag.Table, schema.TranslationTag.TranslationID)
	if _, err := transaction.Exec(context, delQuery, translation.ID); err != nil {
		return dberr.Wrap(err, "clear_translation_tags")
	}

	if len(translation.Tags) == 0 {
		return nil
	}

	insQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.TranslationTag.Table, schema.TranslationTag.TranslationID, schema.TranslationTag.TagID)
	batch := &pgx.Batch{}
	for _, linked := range translation.Tags {
		batch.Queue(insQuery, translation.ID, linked.ID)
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return dberr.Wrap(err, "link_translation_tags")
	}
	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Translation, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s AS tags
		FROM %s tr
		WHERE tr.%s = $1
	`,
		translationColumns(), tagsSubquery(),
		schema.Translation.Table,
		schema.Translation.ID,
	)
	return repository.queryOne(context, "find_translation_by_id", query, id)
}

func (repository *PostgresRepository) FindByKeyAndLocale(context context.Context, key, locale string) (*Translation, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s AS tags
		FROM %s tr
		WHERE tr.%s = $1 AND tr.%s = $2
	`,
		translationColumns(), tagsSubquery(),
		schema.Translation.Table,
		schema.Translation.Key, schema.Translation.Locale,
	)
	return repository.queryOne(context, "find_translation_by_key_locale", query, key, locale)
}

func (repository *PostgresRepository) ExistsByKeyAndLocale(context context.Context, key, locale string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Translation.Table, schema.Translation.Key, schema.Translation.Locale)

	var exists bool
	if err := repository.db.QueryRow(context, query, key, locale).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "exists_translation")
	}
	return exists, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Translation.Table, schema.Translation.ID)

	result, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_translation")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Search(context context.Context, filter Filter, params pagination.Params) ([]*Translation, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count, %s AS tags
		FROM %s tr
		WHERE 1=1
	`,
		translationColumns(), tagsSubquery(),
		schema.Translation.Table,
	))

	// Keys are exact-case identifiers, so their substring match is sensitive;
	// content is prose and matches case-insensitively.
	if filter.Key != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND tr.%s LIKE '%%' || $%d || '%%'", schema.Translation.Key, argID))
		args = append(args, filter.Key)
		argID++
	}

	if filter.Locale != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND tr.%s = $%d", schema.Translation.Locale, argID))
		args = append(args, filter.Locale)
		argID++
	}

	if filter.Content != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND tr.%s ILIKE '%%' || $%d || '%%'", schema.Translation.Content, argID))
		args = append(args, filter.Content)
		argID++
	}

	// EXISTS keeps the result set free of join duplicates, so no DISTINCT is
	// needed even when a translation carries several tags.
	if filter.TagName != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s tt
			JOIN %s t ON t.%s = tt.%s
			WHERE tt.%s = tr.%s AND t.%s = $%d
		)`,
			schema.TranslationTag.Table,
			schema.Tag.Table, schema.Tag.ID, schema.TranslationTag.TagID,
			schema.TranslationTag.TranslationID, schema.Translation.ID,
			schema.Tag.Name, argID,
		))
		args = append(args, filter.TagName)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY tr.%s %s, tr.%s",
		searchSortColumn(params.SortBy), strings.ToUpper(params.SortDirection), schema.Translation.ID))

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, params.Size, params.Offset())

	return repository.queryPage(context, "search_translations", queryBuilder.String(), args...)
}

func (repository *PostgresRepository) ListByLocale(context context.Context, locale string, params pagination.Params) ([]*Translation, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count, %s AS tags
		FROM %s tr
		WHERE tr.%s = $1
		ORDER BY tr.%s ASC
		LIMIT $2 OFFSET $3
	`,
		translationColumns(), tagsSubquery(),
		schema.Translation.Table,
		schema.Translation.Locale,
		schema.Translation.Key,
	)

	return repository.queryPage(context, "list_translations_by_locale", query, locale, params.Size, params.Offset())
}

func (repository *PostgresRepository) DistinctLocales(context context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s ORDER BY %s ASC`,
		schema.Translation.Locale, schema.Translation.Table, schema.Translation.Locale)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "distinct_locales")
	}
	defer rows.Close()

	locales := make([]string, 0)
	for rows.Next() {
		var locale string
		if err := rows.Scan(&locale); err != nil {
			return nil, dberr.Wrap(err, "scan_locale")
		}
		locales = append(locales, locale)
	}
	return locales, rows.Err()
}

func (repository *PostgresRepository) CountByLocale(context context.Context, locale string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.Translation.Table, schema.Translation.Locale)

	var count int64
	if err := repository.db.QueryRow(context, query, locale).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_translations_by_locale")
	}
	return count, nil
}

func (repository *PostgresRepository) ListForExport(context context.Context, locale string) ([]ExportRow, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, %s, %s FROM %s`,
		schema.Translation.Key, schema.Translation.Locale, schema.Translation.Content,
		schema.Translation.Table))

	if locale != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $1", schema.Translation.Locale))
		args = append(args, locale)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s, %s",
		schema.Translation.Locale, schema.Translation.Key))

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_translations_for_export")
	}
	defer rows.Close()

	exportRows := make([]ExportRow, 0)
	for rows.Next() {
		var row ExportRow
		if err := rows.Scan(&row.Key, &row.Locale, &row.Content); err != nil {
			return nil, dberr.Wrap(err, "scan_export_row")
		}
		exportRows = append(exportRows, row)
	}
	return exportRows, rows.Err()
}

func (repository *PostgresRepository) queryOne(context context.Context, action, query string, args ...any) (*Translation, error) {
	translation := &Translation{}
	var tagsJSON []byte

	err := repository.db.QueryRow(context, query, args...).Scan(
		&translation.ID,
		&translation.Key,
		&translation.Locale,
		&translation.Content,
		&translation.Version,
		&translation.CreatedAt,
		&translation.UpdatedAt,
		&tagsJSON,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	if err := json.Unmarshal(tagsJSON, &translation.Tags); err != nil {
		return nil, dberr.Wrap(err, "unmarshal_translation_tags")
	}
	return translation, nil
}

func (repository *PostgresRepository) queryPage(context context.Context, action, query string, args ...any) ([]*Translation, int, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	translations := make([]*Translation, 0)
	var totalCount int

	for rows.Next() {
		translation := &Translation{}
		var tagsJSON []byte
		err := rows.Scan(
			&translation.ID,
			&translation.Key,
			&translation.Locale,
			&translation.Content,
			&translation.Version,
			&translation.CreatedAt,
			&translation.UpdatedAt,
			&totalCount,
			&tagsJSON,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_translation")
		}

		if err := json.Unmarshal(tagsJSON, &translation.Tags); err != nil {
			return nil, 0, dberr.Wrap(err, "unmarshal_translation_tags")
		}
		translations = append(translations, translation)
	}
	return translations, totalCount, rows.Err()
}
