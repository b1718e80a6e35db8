// Package client is the programmatic consumer of the catalog API: a thin
// HTTP/JSON client plus an in-memory mirror of the catalog (Cache) that
// stays consistent with the server by re-fetching after every mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"libraryapi/internal/book"
)

// Sentinel errors used to classify request rejections. Anything the server
// rejected is an *APIError wrapping one of these (or nothing, for generic
// failures); anything that never produced a decodable response is a
// *TransportError.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("isbn already exists")
)

// APIError is a failure response from the server.
type APIError struct {
	Status  int
	Message string
	Detail  string
	kind    error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error { return e.kind }

// TransportError is a client-side network or decode failure. The server's
// state is unknown when this is returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach server: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client calls the catalog API. Every request carries the caller's context
// and is bounded by the underlying http.Client timeout, so a hung server
// surfaces as an error instead of blocking forever.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// List fetches the full catalog, newest first.
func (c *Client) List(ctx context.Context) ([]book.Book, error) {
	var out []book.Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single book by ID.
func (c *Client) Get(ctx context.Context, id string) (book.Book, error) {
	var out book.Book
	if err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil, &out); err != nil {
		return book.Book{}, err
	}
	return out, nil
}

// Create adds a new book and returns the record with its server-assigned
// id and createdAt.
func (c *Client) Create(ctx context.Context, in book.Input) (book.Book, error) {
	var out book.Book
	if err := c.do(ctx, http.MethodPost, "/api/books", in, &out); err != nil {
		return book.Book{}, err
	}
	return out, nil
}

// Update replaces all mutable fields of the book with the given ID.
func (c *Client) Update(ctx context.Context, id string, in book.Input) (book.Book, error) {
	var out book.Book
	if err := c.do(ctx, http.MethodPut, "/api/books/"+url.PathEscape(id), in, &out); err != nil {
		return book.Book{}, err
	}
	return out, nil
}

// Delete removes the book with the given ID and returns the removed record.
func (c *Client) Delete(ctx context.Context, id string) (book.Book, error) {
	var out book.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil, &out); err != nil {
		return book.Book{}, err
	}
	return out.Book, nil
}

// Search asks the server for books matching the free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]book.Book, error) {
	var out []book.Book
	path := "/api/books/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health reports whether the API is up.
func (c *Client) Health(ctx context.Context) (book.HealthResponse, error) {
	var out book.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return book.HealthResponse{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	op := method + " " + path

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("undecodable %d response: %w", resp.StatusCode, err)}
		}
		return &APIError{
			Status:  resp.StatusCode,
			Message: failure.Message,
			Detail:  failure.Error,
			kind:    classify(resp.StatusCode, failure.Message),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

// classify maps a failure response to a sentinel. Conflicts share the 400
// status with validation failures, so the user-facing message is the
// discriminator.
func classify(status int, message string) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case message == book.DuplicateISBNMessage:
		return ErrConflict
	default:
		return nil
	}
}
