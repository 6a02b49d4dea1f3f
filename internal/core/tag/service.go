package tag

import (
	"context"
	"log/slog"

	"github.com/polyglothq/polyglot/internal/platform/constants"
	"github.com/polyglothq/polyglot/internal/platform/validate"
	"github.com/polyglothq/polyglot/pkg/pagination"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListTags(context context.Context, params pagination.Params) (pagination.Page, error) {
	tags, total, err := service.repo.List(context, params)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(tags, params.Page, params.Size, total), nil
}

func (service *Service) SearchTags(context context.Context, name string, params pagination.Params) (pagination.Page, error) {
	validator := &validate.Validator{}
	validator.Required("name", name)
	validator.MaxLen("name", name, constants.MaxTagNameLength)
	if validator.HasErrors() {
		return pagination.Page{}, validator.Err()
	}

	tags, total, err := service.repo.SearchByName(context, name, params)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.NewPage(tags, params.Page, params.Size, total), nil
}

func (service *Service) GetTagsByTranslationKey(context context.Context, key string) ([]*Tag, error) {
	validator := &validate.Validator{}
	validator.Required("key", key)
	validator.MaxLen("key", key, constants.MaxKeyLength)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	return service.repo.ListByTranslationKey(context, key)
}
