package client

import (
	"context"
	"strings"
	"sync"

	"libraryapi/internal/book"
)

// catalogAPI is the slice of Client the cache needs.
type catalogAPI interface {
	List(ctx context.Context) ([]book.Book, error)
	Create(ctx context.Context, in book.Input) (book.Book, error)
	Update(ctx context.Context, id string, in book.Input) (book.Book, error)
	Delete(ctx context.Context, id string) (book.Book, error)
}

// Cache holds an in-memory mirror of the full catalog and a filtered view
// derived from a free-text query. It never patches records locally: every
// successful mutation triggers a full re-fetch, so server-assigned fields
// and store-enforced invariants are reflected without duplicating that
// logic here. Failed calls leave the mirror untouched.
type Cache struct {
	api catalogAPI

	mu       sync.Mutex
	all      []book.Book
	filtered []book.Book
	query    string
	gen      uint64
}

func NewCache(api catalogAPI) *Cache {
	return &Cache{api: api}
}

// Refresh replaces the mirror with the server's current record set. When
// refreshes overlap, a response is dropped if a newer refresh has started
// since; the stale record set never overwrites a fresher one. On failure the
// previously loaded records are kept.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	books, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return err
	}
	if gen != c.gen {
		// A newer refresh started while this one was in flight.
		return nil
	}
	c.all = books
	c.refilterLocked()
	return nil
}

// SetQuery updates the search query and recomputes the filtered view from
// the already-loaded records. No server round trip.
func (c *Cache) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.refilterLocked()
}

// Query returns the current search query.
func (c *Cache) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// All returns a copy of the full mirrored record set.
func (c *Cache) All() []book.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]book.Book(nil), c.all...)
}

// Books returns a copy of the filtered view.
func (c *Cache) Books() []book.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]book.Book(nil), c.filtered...)
}

// Create adds a book through the API and, on success, re-fetches the
// catalog. The returned record is the server's, including assigned fields.
func (c *Cache) Create(ctx context.Context, in book.Input) (book.Book, error) {
	b, err := c.api.Create(ctx, in)
	if err != nil {
		return book.Book{}, err
	}
	return b, c.Refresh(ctx)
}

// Update replaces a book through the API and, on success, re-fetches.
func (c *Cache) Update(ctx context.Context, id string, in book.Input) (book.Book, error) {
	b, err := c.api.Update(ctx, id, in)
	if err != nil {
		return book.Book{}, err
	}
	return b, c.Refresh(ctx)
}

// Delete removes a book through the API and, on success, re-fetches.
func (c *Cache) Delete(ctx context.Context, id string) (book.Book, error) {
	b, err := c.api.Delete(ctx, id)
	if err != nil {
		return book.Book{}, err
	}
	return b, c.Refresh(ctx)
}

// refilterLocked recomputes the filtered view. Callers hold c.mu.
func (c *Cache) refilterLocked() {
	q := strings.ToLower(strings.TrimSpace(c.query))
	if q == "" {
		c.filtered = append([]book.Book(nil), c.all...)
		return
	}
	filtered := []book.Book{}
	for _, b := range c.all {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Genre), q) {
			filtered = append(filtered, b)
		}
	}
	c.filtered = filtered
}
