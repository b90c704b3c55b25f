package web

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/lromerov/itemcat/internal/domain"
	"github.com/lromerov/itemcat/internal/service"
)

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListItems(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	item, err := s.service.GetItem(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		s.badForm(w, r, err)
		return
	}

	upload, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.service.CreateItem(
		r.Context(),
		r.FormValue("name"),
		r.FormValue("description"),
		r.FormValue("category"),
		upload,
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		s.badForm(w, r, err)
		return
	}

	// Absent and present-but-empty fields are different things on PUT, so
	// the update is built from the raw form map, not FormValue.
	upd := domain.ItemUpdate{
		Name:        formField(r.MultipartForm, "name"),
		Description: formField(r.MultipartForm, "description"),
		Category:    formField(r.MultipartForm, "category"),
	}

	upload, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.service.UpdateItem(r.Context(), id, upd, upload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	if err := s.service.DeleteItem(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "item deleted"})
}

// readUpload pulls the optional "image" part out of a parsed multipart form.
// A request without one returns (nil, nil).
func (s *Server) readUpload(r *http.Request) (*service.Upload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &service.Upload{
		Filename: header.Filename,
		Data:     data,
		MimeType: http.DetectContentType(data),
	}, nil
}

// badForm maps multipart parse failures: an oversized body gets 413,
// anything else is the client's fault.
func (s *Server) badForm(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request too large"})
		return
	}
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form data"})
}

// formField returns a pointer to the first value of the named field, or nil
// when the field was not sent at all.
func formField(form *multipart.Form, key string) *string {
	if form == nil {
		return nil
	}
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func closeWithLog(c io.Closer, what string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close "+what, "error", err)
	}
}
