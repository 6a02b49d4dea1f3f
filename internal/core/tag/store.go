package tag

import (
	"context"
	"errors"

	"github.com/polyglothq/polyglot/pkg/pagination"
)

// ErrDuplicateName is returned by [Repository.Create] when another row already
// holds the requested name. The resolver treats it as losing a create race and
// re-fetches the winning row.
var ErrDuplicateName = errors.New("tag: name already exists")

type Repository interface {
	Create(context context.Context, tag *Tag) error
	FindByName(context context.Context, name string) (*Tag, error)
	List(context context.Context, params pagination.Params) ([]*Tag, int, error)
	SearchByName(context context.Context, name string, params pagination.Params) ([]*Tag, int, error)
	ListByTranslationKey(context context.Context, key string) ([]*Tag, error)
}
