package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/book"
)

type fakeAPI struct {
	list   func(ctx context.Context) ([]book.Book, error)
	create func(ctx context.Context, in book.Input) (book.Book, error)
	update func(ctx context.Context, id string, in book.Input) (book.Book, error)
	del    func(ctx context.Context, id string) (book.Book, error)
}

func (f *fakeAPI) List(ctx context.Context) ([]book.Book, error) {
	return f.list(ctx)
}

func (f *fakeAPI) Create(ctx context.Context, in book.Input) (book.Book, error) {
	return f.create(ctx, in)
}

func (f *fakeAPI) Update(ctx context.Context, id string, in book.Input) (book.Book, error) {
	return f.update(ctx, id, in)
}

func (f *fakeAPI) Delete(ctx context.Context, id string) (book.Book, error) {
	return f.del(ctx, id)
}

var testBooks = []book.Book{
	{ID: "2", Title: "Dune Messiah", Author: "Herbert", Genre: "SciFi"},
	{ID: "1", Title: "Emma", Author: "Austen", Genre: "Romance"},
}

func TestCache_RefreshAndFilter(t *testing.T) {
	cache := NewCache(&fakeAPI{
		list: func(context.Context) ([]book.Book, error) { return testBooks, nil },
	})
	ctx := context.Background()

	require.NoError(t, cache.Refresh(ctx))
	assert.Equal(t, testBooks, cache.All())
	assert.Equal(t, testBooks, cache.Books(), "empty query shows everything")

	cache.SetQuery("AUSTEN")
	got := cache.Books()
	require.Len(t, got, 1, "author match is case-insensitive")
	assert.Equal(t, "Emma", got[0].Title)

	cache.SetQuery("sci")
	got = cache.Books()
	require.Len(t, got, 1, "genre substring match")
	assert.Equal(t, "Dune Messiah", got[0].Title)

	cache.SetQuery("   ")
	assert.Equal(t, testBooks, cache.Books(), "whitespace query trims to empty")

	cache.SetQuery("nothing matches this")
	assert.Empty(t, cache.Books())
	assert.Equal(t, testBooks, cache.All(), "full set is untouched by filtering")
}

func TestCache_FilterRecomputedOnRefresh(t *testing.T) {
	var current atomic.Value
	current.Store(testBooks[:1])
	cache := NewCache(&fakeAPI{
		list: func(context.Context) ([]book.Book, error) { return current.Load().([]book.Book), nil },
	})
	ctx := context.Background()

	require.NoError(t, cache.Refresh(ctx))
	cache.SetQuery("austen")
	assert.Empty(t, cache.Books())

	current.Store(testBooks)
	require.NoError(t, cache.Refresh(ctx))
	assert.Len(t, cache.Books(), 1, "new records flow into the filtered view")
}

func TestCache_FailedRefreshKeepsData(t *testing.T) {
	failing := false
	cache := NewCache(&fakeAPI{
		list: func(context.Context) ([]book.Book, error) {
			if failing {
				return nil, errors.New("boom")
			}
			return testBooks, nil
		},
	})
	ctx := context.Background()

	require.NoError(t, cache.Refresh(ctx))
	failing = true

	err := cache.Refresh(ctx)
	assert.Error(t, err, "the failure is surfaced")
	assert.Equal(t, testBooks, cache.All(), "previously loaded data survives")
}

func TestCache_MutationRefetches(t *testing.T) {
	var lists atomic.Int32
	cache := NewCache(&fakeAPI{
		list: func(context.Context) ([]book.Book, error) {
			lists.Add(1)
			return testBooks, nil
		},
		create: func(_ context.Context, in book.Input) (book.Book, error) {
			return book.Book{ID: "3", Title: in.Title}, nil
		},
		del: func(_ context.Context, id string) (book.Book, error) {
			return book.Book{ID: id}, nil
		},
	})
	ctx := context.Background()

	_, err := cache.Create(ctx, book.Input{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), lists.Load(), "successful create triggers a full re-fetch")

	_, err = cache.Delete(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, int32(2), lists.Load())
	assert.Equal(t, testBooks, cache.All(), "mirror is whatever the server returned")
}

func TestCache_FailedMutationDoesNotRefetch(t *testing.T) {
	var lists atomic.Int32
	cache := NewCache(&fakeAPI{
		list: func(context.Context) ([]book.Book, error) {
			lists.Add(1)
			return testBooks, nil
		},
		create: func(context.Context, book.Input) (book.Book, error) {
			return book.Book{}, &APIError{Status: 400, Message: book.DuplicateISBNMessage, kind: ErrConflict}
		},
	})

	_, err := cache.Create(context.Background(), book.Input{Title: "Dup"})
	assert.ErrorIs(t, err, ErrConflict, "the conflict is distinguishable")
	assert.Equal(t, int32(0), lists.Load(), "no re-fetch after a failed mutation")
	assert.Empty(t, cache.All())
}

func TestCache_StaleRefreshDropped(t *testing.T) {
	oldSet := testBooks[:1]
	newSet := testBooks

	release := make(chan struct{})
	var calls atomic.Int32
	cache := NewCache(&fakeAPI{
		list: func(context.Context) ([]book.Book, error) {
			if calls.Add(1) == 1 {
				<-release // first refresh stalls until the second is done
				return oldSet, nil
			}
			return newSet, nil
		},
	})
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- cache.Refresh(ctx) }()

	// Wait until the first refresh is in flight before starting the second.
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, cache.Refresh(ctx))
	assert.Equal(t, newSet, cache.All())

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, newSet, cache.All(), "the stale response must not overwrite the newer one")
}
