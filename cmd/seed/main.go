// Copyright (c) 2026 Polyglot Labs. All rights reserved.

// Command seed bulk-loads synthetic translations for load and scale testing.
//
// It generates dot-separated keys from context/action/component vocabularies,
// suffixed with a UUID for uniqueness, and localized filler content per
// locale. Rows stream into PostgreSQL with COPY in fixed-size batches, with a
// random subset of the provided tags attached to each translation.
//
// Usage:
//
//	seed -total 100000 -batch 1000 -locales en,fr,es -tags frontend,checkout
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyglothq/polyglot/internal/platform/config"
	"github.com/polyglothq/polyglot/internal/platform/database/schema"
	pgstore "github.com/polyglothq/polyglot/internal/platform/postgres"
	"github.com/polyglothq/polyglot/pkg/query"
	"github.com/polyglothq/polyglot/pkg/uuidv7"
)

// Key vocabulary. A generated key reads context.action.component.<uuid>.
var (
	defaultLocales = []string{"en", "fr", "es", "de", "it", "pt", "ru", "zh", "ja", "ko"}

	contexts = []string{"app", "auth", "nav", "error", "validation", "form", "button", "label",
		"message", "notification", "dialog", "menu", "table", "chart", "report", "dashboard", "profile",
		"settings", "admin", "user", "product", "order", "payment", "shipping", "invoice", "customer",
		"support", "help", "faq"}

	actions = []string{"create", "read", "update", "delete", "save", "cancel", "submit", "reset",
		"search", "filter", "sort", "export", "import", "download", "upload", "edit", "view", "list",
		"detail", "summary", "total", "count", "status"}

	components = []string{"title", "subtitle", "header", "footer", "sidebar", "content", "body",
		"text", "description", "placeholder", "tooltip", "hint", "warning", "success", "info", "loading",
		"empty", "nodata", "required", "optional"}
)

// phrases maps locale -> component -> localized filler content. Components
// missing from a locale's table fall through to a generic sentence.
var phrases = map[string]map[string]string{
	"en": {
		"placeholder": "Enter value here...", "error": "An error occurred",
		"success": "Operation completed successfully", "loading": "Loading...",
		"warning": "Please review before continuing", "hint": "Click here",
		"description": "Field Label", "empty": "Nothing to show yet",
	},
	"fr": {
		"placeholder": "Entrez la valeur ici...", "error": "Une erreur s'est produite",
		"success": "Opération terminée avec succès", "loading": "Chargement...",
		"warning": "Veuillez vérifier avant de continuer", "hint": "Cliquez ici",
		"description": "Étiquette de champ", "empty": "Rien à afficher",
	},
	"es": {
		"placeholder": "Ingrese valor aquí...", "error": "Ocurrió un error",
		"success": "Operación completada exitosamente", "loading": "Cargando...",
		"warning": "Revise antes de continuar", "hint": "Haz clic aquí",
		"description": "Etiqueta de campo", "empty": "Nada que mostrar",
	},
	"de": {
		"placeholder": "Wert hier eingeben...", "error": "Ein Fehler ist aufgetreten",
		"success": "Vorgang erfolgreich abgeschlossen", "loading": "Wird geladen...",
		"warning": "Bitte vor dem Fortfahren prüfen", "hint": "Hier klicken",
		"description": "Feldbezeichnung", "empty": "Noch nichts anzuzeigen",
	},
	"it": {
		"placeholder": "Inserisci valore qui...", "error": "Si è verificato un errore",
		"success": "Operazione completata con successo", "loading": "Caricamento...",
		"hint": "Clicca qui", "description": "Etichetta campo",
	},
	"pt": {
		"placeholder": "Digite o valor aqui...", "error": "Ocorreu um erro",
		"success": "Operação concluída com sucesso", "loading": "Carregando...",
		"hint": "Clique aqui", "description": "Rótulo do campo",
	},
	"ru": {
		"placeholder": "Введите значение здесь...", "error": "Произошла ошибка",
		"success": "Операция успешно завершена", "loading": "Загрузка...",
		"hint": "Нажмите здесь", "description": "Метка поля",
	},
	"zh": {
		"placeholder": "在此输入值...", "error": "发生错误",
		"success": "操作成功完成", "loading": "加载中...",
		"hint": "点击这里", "description": "字段标签",
	},
	"ja": {
		"placeholder": "ここに値を入力...", "error": "エラーが発生しました",
		"success": "操作が正常に完了しました", "loading": "読み込み中...",
		"hint": "ここをクリック", "description": "フィールドラベル",
	},
	"ko": {
		"placeholder": "여기에 값을 입력하세요...", "error": "오류가 발생했습니다",
		"success": "작업이 성공적으로 완료되었습니다", "loading": "로딩 중...",
		"hint": "여기를 클릭", "description": "필드 레이블",
	},
}

type seedRow struct {
	id      string
	key     string
	locale  string
	content string
	tagIDs  []string
}

func main() {
	total := flag.Int("total", 100000, "number of translations to generate")
	batchSize := flag.Int("batch", 1000, "rows per COPY batch")
	localesFlag := flag.String("locales", strings.Join(defaultLocales, ","), "comma-separated locales to seed")
	tagsFlag := flag.String("tags", "frontend,backend,mobile,web,checkout,onboarding", "comma-separated tag names")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "polyglot-seed"))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	locales := query.StringSlice(*localesFlag)
	if len(locales) == 0 {
		locales = defaultLocales
	}
	tagNames := query.StringSlice(*tagsFlag)

	tagIDs, err := ensureTags(ctx, pool, tagNames)
	must(log, err, "ensure tags")
	log.Info("tags_ready", slog.Int("count", len(tagIDs)))

	start := time.Now()
	batches := *total / *batchSize

	log.Info("seeding_started",
		slog.Int("total", *total),
		slog.Int("batches", batches),
		slog.Int("batch_size", *batchSize),
	)

	for batch := 0; batch < batches; batch++ {
		rows := generateBatch(*batchSize, locales, tagIDs)
		must(log, insertBatch(ctx, pool, rows), "insert batch")

		if (batch+1)%10 == 0 {
			log.Info("seeding_progress",
				slog.Int("batch", batch+1),
				slog.Int("translations", (batch+1)*(*batchSize)),
			)
		}
	}

	log.Info("seeding_completed", slog.Duration("elapsed", time.Since(start)))
	logStatistics(ctx, pool, log)
}

// ensureTags inserts the requested tag names, tolerating ones that already
// exist, and returns the full id set.
func ensureTags(ctx context.Context, pool *pgxpool.Pool, names []string) ([]string, error) {
	insQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO NOTHING`,
		schema.Tag.Table, schema.Tag.ID, schema.Tag.Name, schema.Tag.Name)

	for _, name := range names {
		if _, err := pool.Exec(ctx, insQuery, uuidv7.New(), name); err != nil {
			return nil, fmt.Errorf("seed: insert tag %q: %w", name, err)
		}
	}

	selQuery := fmt.Sprintf(`SELECT %s FROM %s`, schema.Tag.ID, schema.Tag.Table)
	rows, err := pool.Query(ctx, selQuery)
	if err != nil {
		return nil, fmt.Errorf("seed: list tags: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, len(names))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("seed: scan tag: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func generateBatch(size int, locales, tagIDs []string) []seedRow {
	rows := make([]seedRow, 0, size)
	for i := 0; i < size; i++ {
		key := generateKey()
		locale := locales[rand.Intn(len(locales))]

		row := seedRow{
			id:      uuidv7.New(),
			key:     key,
			locale:  locale,
			content: contentFor(key, locale),
		}

		// Up to three random tags per translation.
		if len(tagIDs) > 0 {
			picked := make(map[string]struct{})
			for j := 0; j < rand.Intn(4); j++ {
				picked[tagIDs[rand.Intn(len(tagIDs))]] = struct{}{}
			}
			for id := range picked {
				row.tagIDs = append(row.tagIDs, id)
			}
		}

		rows = append(rows, row)
	}
	return rows
}

// generateKey builds a unique dot-separated key. The UUID suffix keeps the
// (key, locale) constraint satisfied across random draws.
func generateKey() string {
	base := strings.Join([]string{
		contexts[rand.Intn(len(contexts))],
		actions[rand.Intn(len(actions))],
		components[rand.Intn(len(components))],
	}, ".")
	return base + "." + uuidv7.New()
}

func contentFor(key, locale string) string {
	parts := strings.Split(key, ".")
	component := parts[len(parts)-2]

	if table, ok := phrases[locale]; ok {
		if component == "title" {
			return fmt.Sprintf("Title %d (%s)", rand.Intn(1000), locale)
		}
		if phrase, ok := table[component]; ok {
			return phrase
		}
	}
	return fmt.Sprintf("Translation for %s in %s", key, locale)
}

// insertBatch streams one batch with COPY, then links tags in a single
// round-trip batch, all inside one transaction.
func insertBatch(ctx context.Context, pool *pgxpool.Pool, rows []seedRow) error {
	transaction, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("seed: begin batch: %w", err)
	}
	defer transaction.Rollback(ctx)

	copyRows := make([][]any, 0, len(rows))
	for _, row := range rows {
		copyRows = append(copyRows, []any{row.id, row.key, row.locale, row.content, int64(0)})
	}

	_, err = transaction.CopyFrom(ctx,
		pgx.Identifier{"i18n", "translation"},
		[]string{schema.Translation.ID, schema.Translation.Key, schema.Translation.Locale, schema.Translation.Content, schema.Translation.Version},
		pgx.CopyFromRows(copyRows),
	)
	if err != nil {
		return fmt.Errorf("seed: copy translations: %w", err)
	}

	linkRows := make([][]any, 0)
	for _, row := range rows {
		for _, tagID := range row.tagIDs {
			linkRows = append(linkRows, []any{row.id, tagID})
		}
	}
	if len(linkRows) > 0 {
		_, err = transaction.CopyFrom(ctx,
			pgx.Identifier{"i18n", "translationtag"},
			[]string{schema.TranslationTag.TranslationID, schema.TranslationTag.TagID},
			pgx.CopyFromRows(linkRows),
		)
		if err != nil {
			return fmt.Errorf("seed: copy tag links: %w", err)
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("seed: commit batch: %w", err)
	}
	return nil
}

func logStatistics(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) {
	var totalTranslations, totalTags int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Translation.Table)
	if err := pool.QueryRow(ctx, countQuery).Scan(&totalTranslations); err != nil {
		log.Error("stats_failed", slog.Any("error", err))
		return
	}
	tagCountQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Tag.Table)
	if err := pool.QueryRow(ctx, tagCountQuery).Scan(&totalTags); err != nil {
		log.Error("stats_failed", slog.Any("error", err))
		return
	}

	log.Info("seeding_statistics",
		slog.Int64("total_translations", totalTranslations),
		slog.Int64("total_tags", totalTags),
	)

	localeQuery := fmt.Sprintf(`SELECT %s, COUNT(*) FROM %s GROUP BY %s ORDER BY %s`,
		schema.Translation.Locale, schema.Translation.Table,
		schema.Translation.Locale, schema.Translation.Locale)
	rows, err := pool.Query(ctx, localeQuery)
	if err != nil {
		log.Error("stats_failed", slog.Any("error", err))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var locale string
		var count int64
		if err := rows.Scan(&locale, &count); err != nil {
			log.Error("stats_failed", slog.Any("error", err))
			return
		}
		log.Info("locale_entries", slog.String("locale", locale), slog.Int64("count", count))
	}
}

func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
