package book

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"libraryapi/internal/httpx"
)

const missingFieldsMessage = "Missing required fields: title, author, genre, isbn, publishedYear"

// DuplicateISBNMessage is the user-facing conflict message. The client
// package matches on it to classify conflicts, so it is exported.
const DuplicateISBNMessage = "Book with this ISBN already exists"

// HTTPHandler exposes the catalog service over HTTP/JSON.
type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the catalog routes on mux under /api.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/books", h.List)
	mux.HandleFunc("POST /api/books", h.Create)
	mux.HandleFunc("GET /api/books/search", h.Search)
	mux.HandleFunc("GET /api/books/{id}", h.Get)
	mux.HandleFunc("PUT /api/books/{id}", h.Update)
	mux.HandleFunc("DELETE /api/books/{id}", h.Delete)
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONMessage(w, http.StatusNotFound, "API endpoint not found")
	})
}

// List handles GET /api/books.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONErrorDetail(w, http.StatusInternalServerError, "Error fetching books", err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /api/books/{id}.
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONMessage(w, http.StatusNotFound, "Book not found")
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONMessage(w, http.StatusNotFound, "Book not found")
			return
		}
		httpx.JSONErrorDetail(w, http.StatusInternalServerError, "Error fetching book", err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /api/books.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONErrorDetail(w, http.StatusBadRequest, "Error adding book", err)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.JSONMessage(w, http.StatusBadRequest, missingFieldsMessage)
		case errors.Is(err, ErrDuplicateISBN):
			httpx.JSONMessage(w, http.StatusBadRequest, DuplicateISBNMessage)
		default:
			httpx.JSONErrorDetail(w, http.StatusInternalServerError, "Error adding book", err)
		}
		return
	}

	log.Printf("book added id=%s title=%q", b.ID, b.Title)
	httpx.JSON(w, http.StatusCreated, b)
}

// Update handles PUT /api/books/{id}. All mutable fields are replaced; there
// are no partial updates.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONMessage(w, http.StatusNotFound, "Book not found")
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONErrorDetail(w, http.StatusBadRequest, "Error updating book", err)
		return
	}

	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.JSONMessage(w, http.StatusBadRequest, missingFieldsMessage)
		case errors.Is(err, ErrNotFound):
			httpx.JSONMessage(w, http.StatusNotFound, "Book not found")
		case errors.Is(err, ErrDuplicateISBN):
			httpx.JSONMessage(w, http.StatusBadRequest, DuplicateISBNMessage)
		default:
			httpx.JSONErrorDetail(w, http.StatusInternalServerError, "Error updating book", err)
		}
		return
	}

	log.Printf("book updated id=%s title=%q", b.ID, b.Title)
	httpx.JSON(w, http.StatusOK, b)
}

// DeleteResponse is the body of a successful delete: a confirmation message
// plus the removed record.
type DeleteResponse struct {
	Message string `json:"message"`
	Book    Book   `json:"book"`
}

// Delete handles DELETE /api/books/{id}.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONMessage(w, http.StatusNotFound, "Book not found")
		return
	}

	b, err := h.service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONMessage(w, http.StatusNotFound, "Book not found")
			return
		}
		httpx.JSONErrorDetail(w, http.StatusInternalServerError, "Error deleting book", err)
		return
	}

	log.Printf("book deleted id=%s title=%q", b.ID, b.Title)
	httpx.JSON(w, http.StatusOK, DeleteResponse{
		Message: "Book deleted successfully",
		Book:    b,
	})
}

// Search handles GET /api/books/search?q=...
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.JSONErrorDetail(w, http.StatusInternalServerError, "Error searching books", err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /api/health.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Online Library API is running",
		Timestamp: time.Now().UTC(),
	})
}

// pathID extracts and validates the {id} path segment. A malformed ID can
// never name an existing record, so callers treat it as not found.
func pathID(r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
