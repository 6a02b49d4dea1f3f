package translation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/polyglothq/polyglot/internal/platform/ctxutil"
	"github.com/polyglothq/polyglot/internal/platform/middleware"
	requestutil "github.com/polyglothq/polyglot/internal/platform/request"
	"github.com/polyglothq/polyglot/internal/platform/respond"
	"github.com/polyglothq/polyglot/internal/platform/sec"
	"github.com/polyglothq/polyglot/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the translation endpoints. Reads require VIEWER,
// writes require EDITOR, deletes require ADMIN. The export snapshot is
// public so frontends and CDNs can pull it without credentials.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/export", handler.exportTranslations)

	router.Group(func(viewer chi.Router) {
		viewer.Use(middleware.RequireRole(sec.RoleViewer))
		viewer.Get("/search", handler.searchTranslations)
		viewer.Get("/locales", handler.getAvailableLocales)
		viewer.Get("/locale/{locale}", handler.getTranslationsByLocale)
		viewer.Get("/locale/{locale}/count", handler.getTranslationCountByLocale)
		viewer.Get("/key/{key}/locale/{locale}", handler.getTranslationByKeyAndLocale)
		viewer.Get("/{id}", handler.getTranslation)
	})

	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))
		editor.Post("/", handler.createTranslation)
		editor.Put("/{id}", handler.updateTranslation)
	})

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Delete("/{id}", handler.deleteTranslation)
	})
}

func (handler *Handler) createTranslation(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	translation, err := handler.service.CreateTranslation(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if claims := requestutil.Claims(request); claims != nil {
		ctxutil.GetLogger(request.Context()).Info("translation_create_audit",
			slog.String("translation_id", translation.ID),
			slog.String("actor", claims.PrincipalID),
		)
	}

	respond.Created(writer, translation)
}

func (handler *Handler) updateTranslation(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	translation, err := handler.service.UpdateTranslation(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, translation)
}

func (handler *Handler) deleteTranslation(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	if err := handler.service.DeleteTranslation(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).Info("translation_delete_audit",
		slog.String("translation_id", id),
		slog.String("actor", claims.PrincipalID),
	)

	respond.NoContent(writer)
}

func (handler *Handler) getTranslation(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	translation, err := handler.service.GetTranslation(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, translation)
}

func (handler *Handler) getTranslationByKeyAndLocale(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Param(request, "key")
	locale := requestutil.Param(request, "locale")

	translation, err := handler.service.GetTranslationByKeyAndLocale(request.Context(), key, locale)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, translation)
}

func (handler *Handler) searchTranslations(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{
		Key:     query.Get("key"),
		Locale:  query.Get("locale"),
		Content: query.Get("content"),
		TagName: query.Get("tagName"),
	}
	params := pagination.FromRequest(request, "updatedAt", pagination.SortDesc)

	page, err := handler.service.SearchTranslations(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paged(writer, page)
}

func (handler *Handler) getTranslationsByLocale(writer http.ResponseWriter, request *http.Request) {
	locale := requestutil.Param(request, "locale")
	params := pagination.FromRequest(request, "key", pagination.SortAsc)

	page, err := handler.service.GetTranslationsByLocale(request.Context(), locale, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paged(writer, page)
}

func (handler *Handler) getAvailableLocales(writer http.ResponseWriter, request *http.Request) {
	locales, err := handler.service.GetAvailableLocales(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, locales)
}

func (handler *Handler) getTranslationCountByLocale(writer http.ResponseWriter, request *http.Request) {
	locale := requestutil.Param(request, "locale")

	count, err := handler.service.GetTranslationCountByLocale(request.Context(), locale)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, count)
}

func (handler *Handler) exportTranslations(writer http.ResponseWriter, request *http.Request) {
	locale := request.URL.Query().Get("locale")

	snapshot, err := handler.service.ExportTranslations(request.Context(), locale)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, snapshot)
}
