package catalog

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/session"
)

// NoticeLoginRequired is shown when an anonymous session asks for the list.
const NoticeLoginRequired = "Please login or continue as a guest."

// NoticeAddRequiresLogin is shown when a non-authenticated session tries to change the list.
const NoticeAddRequiresLogin = "Please login to add a new book."

// SessionSource reports the current session.
type SessionSource interface {
	Current() session.State
}

type HTTPHandler struct {
	resolver *Resolver
	books    *book.Service
	sessions SessionSource
}

func NewHTTPHandler(resolver *Resolver, books *book.Service, sessions SessionSource) *HTTPHandler {
	return &HTTPHandler{resolver: resolver, books: books, sessions: sessions}
}

// Register mounts the catalog routes. The list requires a guest or
// authenticated session; the anonymous view is the login form.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	notAnonymous := httpx.Guard(func() bool { return !h.sessions.Current().Anonymous() },
		http.StatusUnauthorized, "LOGIN_REQUIRED", NoticeLoginRequired)

	mux.Handle("GET /books", notAnonymous(http.HandlerFunc(h.List)))
	mux.HandleFunc("POST /books", h.Add)
	mux.HandleFunc("DELETE /books", h.Reset)
	mux.HandleFunc("GET /book/{title}", h.Detail)
}

// List handles GET /books?q=&page=&page_size=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	state := h.sessions.Current()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = book.DefaultPageSize
	}

	records, err := h.resolver.Resolve(r.Context(), state.Guest())
	if err != nil {
		log.Printf("catalog list failed request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	p := book.Apply(records, query.Get("q"), state, page, pageSize)
	links := make(map[string]string, len(p.Books))
	for _, b := range p.Books {
		links[b.Title] = DetailPath(b.Title)
	}

	httpx.JSONSuccess(w, r, p.Books, map[string]any{
		"page":        p.Page,
		"page_size":   p.PageSize,
		"total":       p.Total,
		"total_pages": p.TotalPages,
		"session":     state,
		"links":       links,
	})
}

type AddBookReq struct {
	Title       string `json:"title" validate:"max=500"`
	Author      string `json:"author" validate:"max=500"`
	Image       string `json:"image" validate:"http_url,max=2048"`
	Description string `json:"description" validate:"max=10000"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=public private"`
}

// Add handles POST /books
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Current().Authenticated() {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", NoticeAddRequiresLogin, nil)
		return
	}

	var req AddBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	created, err := h.books.AddBook(r.Context(), book.Draft{
		Title:       req.Title,
		Author:      strings.TrimSpace(req.Author),
		Image:       strings.TrimSpace(req.Image),
		Description: req.Description,
		Visibility:  book.Visibility(req.Visibility),
	})
	if err != nil {
		if errors.Is(err, book.ErrTitleRequired) {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", book.NoticeTitleRequired,
				[]httpx.ErrorDetail{{Field: "title", Message: "title is required"}})
			return
		}
		log.Printf("catalog add failed request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, map[string]any{
		"book":  created,
		"draft": book.EmptyDraft(),
		"link":  DetailPath(created.Title),
	}, nil)
}

// Reset handles DELETE /books
func (h *HTTPHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Current().Authenticated() {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", NoticeAddRequiresLogin, nil)
		return
	}
	if err := h.books.Reset(r.Context()); err != nil {
		log.Printf("catalog reset failed request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Detail handles GET /book/{title}
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	if title == "" {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}

	b, err := h.resolver.FindByTitle(r.Context(), title, h.sessions.Current())
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		log.Printf("catalog detail failed request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}
