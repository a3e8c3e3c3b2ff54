package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/JonMunkholm/reshape/internal/web/templates"
)

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID   string    `json:"id"`
	View core.View `json:"view"`
}

// StatusResponse reports server capacity.
type StatusResponse struct {
	Sessions core.SessionLimiterStatus `json:"sessions"`
	Time     time.Time                 `json:"time"`
}

type viewQuery struct {
	Rows *int `schema:"rows"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	formats := make([]string, len(core.Formats))
	for i, f := range core.Formats {
		formats[i] = string(f)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := templates.Index(templates.IndexData{
		Title:       "Reshape",
		Formats:     formats,
		MaxFileSize: s.cfg.Upload.MaxFileSize,
		PreviewRows: s.cfg.Session.PreviewRows,
	}).Render(r.Context(), w)
	if err != nil {
		respondError(w, r, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Sessions: s.service.LimiterStatus(),
		Time:     time.Now().UTC(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.service.Create()
	if err != nil {
		respondError(w, r, err)
		return
	}

	var view core.View
	if err := s.service.Do(id, func(ws *core.Workspace) error {
		view = ws.View(0)
		return nil
	}); err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, View: view})
}

// handleGetSession returns the session view. ?rows=N overrides the preview
// size; a negative value returns every row.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	var q viewQuery
	if err := decodeQuery(r, &q); err != nil {
		respondError(w, r, err)
		return
	}
	limit := s.cfg.Session.PreviewRows
	if q.Rows != nil {
		limit = *q.Rows
	}

	var view core.View
	err := s.service.Do(sessionID(r), func(ws *core.Workspace) error {
		view = ws.View(limit)
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.service.Close(sessionID(r)) {
		respondError(w, r, core.ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
