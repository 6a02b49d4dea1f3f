package tag

import (
	"context"
	"errors"

	"github.com/polyglothq/polyglot/internal/platform/apperr"
	"github.com/polyglothq/polyglot/internal/platform/dberr"
	"github.com/polyglothq/polyglot/pkg/slice"
	"github.com/polyglothq/polyglot/pkg/uuidv7"
)

// Resolver turns tag names into persisted tags, creating missing ones on the
// fly. It is safe under concurrent resolution of the same name: the loser of a
// create race re-fetches the row the winner inserted.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve maps each distinct name to an existing or newly created tag. The
// returned slice follows the input order with duplicates collapsed onto the
// first occurrence.
func (resolver *Resolver) Resolve(context context.Context, names []string) ([]*Tag, error) {
	distinct := slice.Unique(names)

	resolved := make([]*Tag, 0, len(distinct))
	for _, name := range distinct {
		tag, err := resolver.resolveOne(context, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, tag)
	}
	return resolved, nil
}

func (resolver *Resolver) resolveOne(context context.Context, name string) (*Tag, error) {
	existing, err := resolver.repo.FindByName(context, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	created := &Tag{ID: uuidv7.New(), Name: name}
	err = resolver.repo.Create(context, created)
	if err == nil {
		return created, nil
	}

	// Another request inserted the same name between our lookup and insert.
	// The unique constraint guarantees exactly one winner; adopt its row.
	if errors.Is(err, ErrDuplicateName) {
		winner, findErr := resolver.repo.FindByName(context, name)
		if findErr != nil {
			return nil, apperr.Internal(findErr)
		}
		return winner, nil
	}
	return nil, err
}
