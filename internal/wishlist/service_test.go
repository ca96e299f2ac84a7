package wishlist

import (
	"context"
	"sync"
	"testing"

	"github.com/angelmondragon/gamewishlist-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/gamewishlist-backend/pkg/errors"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(ServiceParams{Repo: repo, Tx: client, Logger: logger.Nop()})
	require.NoError(t, err)
	return svc, repo
}

func realm() CreateItemInput {
	return CreateItemInput{
		Title:     "Realm",
		Platform:  "pc",
		Thumbnail: "https://x/a.jpg",
		GameURL:   "https://x/a",
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = NewService(ServiceParams{Repo: &Repository{}})
	assert.Error(t, err)
}

func TestListEmptyReturnsNonNilSlice(t *testing.T) {
	svc, _ := newTestService(t)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCreateThenListContainsEntryOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, realm())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	other := realm()
	other.Title = "Other"
	other.GameURL = "https://x/b"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	matches := 0
	for _, item := range items {
		if item.ID == created.ID {
			matches++
			assert.Equal(t, *created, item)
		}
	}
	assert.Equal(t, 1, matches)
	assert.Less(t, items[0].ID, items[1].ID)
}

func TestCreateTrimsInput(t *testing.T) {
	svc, _ := newTestService(t)

	in := realm()
	in.Title = "  Realm  "
	in.GameURL = " https://x/a "
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Realm", created.Title)
	assert.Equal(t, "https://x/a", created.GameURL)
}

func TestCreateDuplicateLeavesTableUnchanged(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, realm())
	require.NoError(t, err)

	before, err := repo.Count(ctx)
	require.NoError(t, err)

	dup := realm()
	dup.Title = "Realm Again"
	_, err = svc.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateRejectsInvalidCandidates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	cases := map[string]func(*CreateItemInput){
		"missing title":      func(in *CreateItemInput) { in.Title = "   " },
		"missing platform":   func(in *CreateItemInput) { in.Platform = "" },
		"relative thumbnail": func(in *CreateItemInput) { in.Thumbnail = "/a.jpg" },
		"bad game url":       func(in *CreateItemInput) { in.GameURL = "not a url" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := realm()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.NotNil(t, typed.Details())
		})
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), 9999)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateDeleteRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, realm())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, created.GameURL, item.GameURL)
	}

	err = svc.Delete(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeletedIDIsNotReused(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, realm())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.ID))

	second, err := svc.Create(ctx, realm())
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestConcurrentCreatesSameURLExactlyOneWins(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	const workers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, realm())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case IsDuplicate(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
