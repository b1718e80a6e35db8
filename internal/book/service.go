package book

import (
	"context"
)

// Service provides catalog business logic on top of a Store. It validates
// input and leaves uniqueness enforcement to the store.
type Service struct {
	store Store
}

// NewService creates a new catalog service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the input and inserts a new book.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Book{}, err
	}
	return s.store.Insert(ctx, in.Fields())
}

// Get returns a single book by ID.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.store.Get(ctx, id)
}

// List returns every book, newest first.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.store.ListAll(ctx)
}

// Search returns books matching the free-text query, newest first. An empty
// query returns the full catalog.
func (s *Service) Search(ctx context.Context, query string) ([]Book, error) {
	return s.store.FindByText(ctx, query)
}

// Update validates the input and replaces all mutable fields of the book
// with the given ID.
func (s *Service) Update(ctx context.Context, id string, in Input) (Book, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Book{}, err
	}
	return s.store.Replace(ctx, id, in.Fields())
}

// Delete removes the book with the given ID and returns the removed record.
func (s *Service) Delete(ctx context.Context, id string) (Book, error) {
	return s.store.Delete(ctx, id)
}
