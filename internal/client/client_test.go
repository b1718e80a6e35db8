package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/book"
)

// newTestServer wires a real handler onto an in-memory store, so these tests
// exercise the full contract end to end.
func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	book.NewHTTPHandler(book.NewService(book.NewMemoryStore())).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func duneInput() book.Input {
	return book.Input{
		Title:         "Dune",
		Author:        "Herbert",
		Genre:         "SciFi",
		ISBN:          "123",
		PublishedYear: 1965,
	}
}

func TestClient_CreateRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	created, err := c.Create(ctx, duneInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, "Dune", created.Title)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestClient_DuplicateISBN(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.Create(ctx, duneInput())
	require.NoError(t, err)

	in := duneInput()
	in.Title = "Dune Messiah"
	_, err = c.Create(ctx, in)
	assert.ErrorIs(t, err, ErrConflict)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, book.DuplicateISBNMessage, apiErr.Message)
}

func TestClient_MissingFields(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	in := duneInput()
	in.Genre = ""
	_, err := c.Create(context.Background(), in)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_NotFound(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.Get(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := c.Create(ctx, duneInput())
	require.NoError(t, err)

	removed, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = c.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "second delete of the same id")
}

func TestClient_Search(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.Create(ctx, duneInput())
	require.NoError(t, err)

	matches, err := c.Search(ctx, "dune")
	require.NoError(t, err)
	require.Len(t, matches, 1, "lowercase query matches Dune")
	assert.Equal(t, "Dune", matches[0].Title)

	none, err := c.Search(ctx, "austen")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClient_Health(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", h.Status)
}

func TestClient_TransportError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL)
	srv.Close()

	_, err := c.List(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotNil(t, terr.Err)
}
