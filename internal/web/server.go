package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lromerov/itemcat/internal/assetstore"
	"github.com/lromerov/itemcat/internal/domain"
	"github.com/lromerov/itemcat/internal/service"
)

// maxRequestSize caps create/update request bodies, uploads included.
const maxRequestSize = 16 << 20 // 16 MiB

type Server struct {
	service *service.ItemService
	assets  assetstore.AssetStore
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(svc *service.ItemService, assets assetstore.AssetStore, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		assets:  assets,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /items", s.handleListItems)
	s.mux.HandleFunc("POST /items", s.handleCreateItem)
	s.mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	s.mux.HandleFunc("PUT /items/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)
	s.mux.HandleFunc("GET /uploads/{filename}", s.handleGetUpload)
	s.mux.HandleFunc("GET /items-table", s.handleItemsTable)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// itemResponse is the wire shape of a catalog record. ImageURL is the public
// /uploads/ path derived from the stored filename, or null.
type itemResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"imageUrl"`
}

func toItemResponse(item *domain.Item) itemResponse {
	resp := itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
	}
	if item.ImagePath != nil {
		url := "/uploads/" + *item.ImagePath
		resp.ImageURL = &url
	}
	return resp
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError is the single place request errors become status codes. Every
// typed error has a mapping; anything unmatched is an internal failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrNameRequired):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "the 'name' field is required"})
	case errors.Is(err, domain.ErrInvalidFilename):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid filename"})
	case errors.As(err, &maxErr):
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request too large"})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
