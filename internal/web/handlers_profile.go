package web

import (
	"net/http"

	"github.com/JonMunkholm/reshape/internal/core"
)

// ApplyProfileResponse is returned after a profile is applied.
type ApplyProfileResponse struct {
	Skipped []string  `json:"skipped,omitempty"`
	View    core.View `json:"view"`
}

// handleGetProfile returns the session setup as YAML, or as JSON when the
// client asks for it.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	var p *core.Profile
	err := s.service.Do(sessionID(r), func(ws *core.Workspace) error {
		p = ws.Profile()
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, p)
		return
	}

	data, err := p.Marshal()
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handlePutProfile applies a YAML profile from the request body.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	data, err := core.ReadInput(r.Body, maxBodySize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := core.ParseProfile([]byte(data))
	if err != nil {
		s.metrics.observe("apply_profile", err)
		respondError(w, r, err)
		return
	}

	var resp ApplyProfileResponse
	err = s.service.Do(sessionID(r), func(ws *core.Workspace) error {
		skipped, err := ws.ApplyProfile(p)
		if err != nil {
			return err
		}
		resp.Skipped = skipped
		resp.View = ws.View(s.cfg.Session.PreviewRows)
		return nil
	})
	s.metrics.observe("apply_profile", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
