package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when a write would leave two books with the
// same ISBN. Uniqueness is enforced by the store, not the service layer.
var ErrDuplicateISBN = errors.New("book with this ISBN already exists")

// Book represents a book entity. JSON field names follow the wire contract
// consumed by the browser client and the API client package.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	ISBN          string    `json:"isbn"`
	PublishedYear int       `json:"publishedYear"`
	Description   string    `json:"description"`
	CoverURL      string    `json:"coverUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Fields holds the mutable fields of a book, already validated at the
// service boundary. Insert and Replace both take the full set; there are no
// partial updates.
type Fields struct {
	Title         string
	Author        string
	Genre         string
	ISBN          string
	PublishedYear int
	Description   string
	CoverURL      string
}
