package book

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store with the same semantics as
// PostgresStore. A single mutex serializes writes, which is what makes the
// ISBN uniqueness check atomic. IDs are random UUIDs and are never reused
// after a delete.
type MemoryStore struct {
	mu     sync.RWMutex
	books  map[string]Book
	byISBN map[string]string // isbn -> id
	clock  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:  make(map[string]Book),
		byISBN: make(map[string]string),
		clock:  time.Now,
	}
}

func (s *MemoryStore) Insert(ctx context.Context, f Fields) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byISBN[f.ISBN]; exists {
		return Book{}, ErrDuplicateISBN
	}
	b := Book{
		ID:            uuid.New().String(),
		Title:         f.Title,
		Author:        f.Author,
		Genre:         f.Genre,
		ISBN:          f.ISBN,
		PublishedYear: f.PublishedYear,
		Description:   f.Description,
		CoverURL:      f.CoverURL,
		CreatedAt:     s.clock(),
	}
	s.books[b.ID] = b
	s.byISBN[b.ISBN] = b.ID
	return b, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(Book) bool { return true }), nil
}

func (s *MemoryStore) FindByText(ctx context.Context, query string) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	return s.snapshot(func(b Book) bool {
		return strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Genre), q)
	}), nil
}

// snapshot returns matching books ordered newest first. Callers must hold at
// least the read lock.
func (s *MemoryStore) snapshot(match func(Book) bool) []Book {
	out := []Book{}
	for _, b := range s.books {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *MemoryStore) Replace(ctx context.Context, id string, f Fields) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	if otherID, exists := s.byISBN[f.ISBN]; exists && otherID != id {
		return Book{}, ErrDuplicateISBN
	}

	delete(s.byISBN, b.ISBN)
	b.Title = f.Title
	b.Author = f.Author
	b.Genre = f.Genre
	b.ISBN = f.ISBN
	b.PublishedYear = f.PublishedYear
	b.Description = f.Description
	b.CoverURL = f.CoverURL
	s.books[id] = b
	s.byISBN[b.ISBN] = id
	return b, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	delete(s.books, id)
	delete(s.byISBN, b.ISBN)
	return b, nil
}
