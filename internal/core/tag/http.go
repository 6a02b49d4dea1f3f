package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/polyglothq/polyglot/internal/platform/request"
	"github.com/polyglothq/polyglot/internal/platform/respond"
	"github.com/polyglothq/polyglot/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTags)
	router.Get("/search", handler.searchTags)
	router.Get("/translation-key/{key}", handler.getTagsByTranslationKey)
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, "name", pagination.SortAsc)

	page, err := handler.service.ListTags(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paged(writer, page)
}

func (handler *Handler) searchTags(writer http.ResponseWriter, request *http.Request) {
	name := request.URL.Query().Get("name")
	params := pagination.FromRequest(request, "name", pagination.SortAsc)

	page, err := handler.service.SearchTags(request.Context(), name, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paged(writer, page)
}

func (handler *Handler) getTagsByTranslationKey(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Param(request, "key")

	tags, err := handler.service.GetTagsByTranslationKey(request.Context(), key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}
