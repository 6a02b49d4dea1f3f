// Copyright (c) 2026 Polyglot Labs. All rights reserved.

package tag_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglothq/polyglot/internal/core/tag"
	"github.com/polyglothq/polyglot/internal/platform/dberr"
	"github.com/polyglothq/polyglot/pkg/pagination"
	"github.com/polyglothq/polyglot/pkg/pointer"
	"github.com/polyglothq/polyglot/pkg/uuidv7"
)

// fakeRepository is an in-memory Repository backed by a name-keyed map. It
// enforces the unique name constraint the same way Postgres does.
type fakeRepository struct {
	mu      sync.Mutex
	byName  map[string]*tag.Tag
	creates int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byName: make(map[string]*tag.Tag)}
}

func (f *fakeRepository) Create(_ context.Context, t *tag.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if _, ok := f.byName[t.Name]; ok {
		return tag.ErrDuplicateName
	}
	copied := *t
	f.byName[t.Name] = &copied
	return nil
}

func (f *fakeRepository) FindByName(_ context.Context, name string) (*tag.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byName[name]; ok {
		copied := *existing
		return &copied, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) List(_ context.Context, _ pagination.Params) ([]*tag.Tag, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) SearchByName(_ context.Context, _ string, _ pagination.Params) ([]*tag.Tag, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) ListByTranslationKey(_ context.Context, _ string) ([]*tag.Tag, error) {
	return nil, nil
}

/*
TestResolver_Resolve_CreatesMissing checks that unknown names are persisted.
*/
func TestResolver_Resolve_CreatesMissing(t *testing.T) {
	repo := newFakeRepository()
	resolver := tag.NewResolver(repo)

	resolved, err := resolver.Resolve(context.Background(), []string{"frontend", "checkout"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	assert.Equal(t, "frontend", resolved[0].Name)
	assert.Equal(t, "checkout", resolved[1].Name)
	assert.NotEmpty(t, resolved[0].ID)
	assert.NotEqual(t, resolved[0].ID, resolved[1].ID)
}

/*
TestResolver_Resolve_ReusesExisting checks that known names are not re-created.
*/
func TestResolver_Resolve_ReusesExisting(t *testing.T) {
	repo := newFakeRepository()
	resolver := tag.NewResolver(repo)

	curated := &tag.Tag{
		ID:          uuidv7.New(),
		Name:        "mobile",
		Description: pointer.To("Strings shipped in the mobile apps"),
	}
	require.NoError(t, repo.Create(context.Background(), curated))

	resolved, err := resolver.Resolve(context.Background(), []string{"mobile"})
	require.NoError(t, err)

	assert.Equal(t, curated.ID, resolved[0].ID)
	assert.Equal(t, "Strings shipped in the mobile apps", pointer.Val(resolved[0].Description))
	assert.Equal(t, 1, repo.creates)
}

/*
TestResolver_Resolve_CollapsesDuplicates checks in-request duplicate handling.
*/
func TestResolver_Resolve_CollapsesDuplicates(t *testing.T) {
	repo := newFakeRepository()
	resolver := tag.NewResolver(repo)

	resolved, err := resolver.Resolve(context.Background(), []string{"web", "web", "web"})
	require.NoError(t, err)

	assert.Len(t, resolved, 1)
	assert.Equal(t, 1, repo.creates)
}

/*
TestResolver_Resolve_ConcurrentSameName races many goroutines on one name and
verifies every caller converges on the single winning row.
*/
func TestResolver_Resolve_ConcurrentSameName(t *testing.T) {
	repo := newFakeRepository()
	resolver := tag.NewResolver(repo)

	const workers = 16
	ids := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			resolved, err := resolver.Resolve(context.Background(), []string{"contended"})
			require.NoError(t, err)
			require.Len(t, resolved, 1)
			ids[slot] = resolved[0].ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, ids[0], ids[i], "all resolvers must adopt the same row")
	}
}
