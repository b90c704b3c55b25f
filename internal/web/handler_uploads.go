package web

import (
	"html/template"
	"io"
	"net/http"
)

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	rc, mimeType, err := s.assets.Open(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeWithLog(rc, "asset file", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream asset", "filename", name, "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "itemcat - item catalog API",
		"endpoints": []string{
			"/items",
			"/items/{id}",
			"/uploads/{filename}",
			"/items-table",
		},
	})
}

var itemsTableTmpl = template.Must(template.New("items-table").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Items</title>
<style>table{border-collapse:collapse;width:100%}th,td{border:1px solid #ddd;padding:8px}th{background:#f4f4f4;text-align:left}</style>
</head><body><h1>Items</h1>
<table><thead><tr><th>ID</th><th>Name</th><th>Description</th><th>Category</th><th>Image</th></tr></thead>
<tbody>{{range .}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Description}}</td><td>{{.Category}}</td><td>{{with .ImageURL}}{{.}}{{end}}</td></tr>
{{end}}</tbody></table></body></html>
`))

// handleItemsTable renders the read-only HTML projection of the catalog.
func (s *Server) handleItemsTable(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListItems(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rows := make([]itemResponse, 0, len(items))
	for _, item := range items {
		rows = append(rows, toItemResponse(item))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := itemsTableTmpl.Execute(w, rows); err != nil {
		s.logger.Error("failed to render items table", "error", err)
	}
}
