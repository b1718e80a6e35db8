package book

import (
	"context"
)

// Store defines the contract for durable book storage. Implementations must
// enforce ISBN uniqueness atomically: two concurrent inserts with the same
// ISBN result in exactly one success and one ErrDuplicateISBN.
type Store interface {
	// Insert persists a new book, assigning its ID and CreatedAt.
	Insert(ctx context.Context, f Fields) (Book, error)
	// Get returns the book with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Book, error)
	// ListAll returns every book, newest first.
	ListAll(ctx context.Context) ([]Book, error)
	// FindByText returns books whose title, author, or genre contains the
	// query case-insensitively, newest first. An empty query matches all.
	FindByText(ctx context.Context, query string) ([]Book, error)
	// Replace overwrites all mutable fields of the book with the given ID
	// and returns the updated record. ErrNotFound if the ID is unknown,
	// ErrDuplicateISBN if the new ISBN belongs to a different book.
	Replace(ctx context.Context, id string, f Fields) (Book, error)
	// Delete removes the book with the given ID and returns it, or
	// ErrNotFound.
	Delete(ctx context.Context, id string) (Book, error)
}
