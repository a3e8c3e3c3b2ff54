package web

import (
	"io"
	"mime"
	"net/http"

	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/go-chi/chi/v5"
)

// renderQuery holds per-request TXT option overrides.
type renderQuery struct {
	UseTab      *bool `schema:"useTab"`
	SingleLine  *bool `schema:"singleLine"`
	StartIndent *int  `schema:"startIndent"`
}

func (q renderQuery) empty() bool {
	return q.UseTab == nil && q.SingleLine == nil && q.StartIndent == nil
}

func (q renderQuery) apply(opts core.TextOptions) core.TextOptions {
	if q.UseTab != nil {
		opts.UseTab = *q.UseTab
	}
	if q.SingleLine != nil {
		opts.SingleLine = *q.SingleLine
	}
	if q.StartIndent != nil {
		opts.StartIndent = *q.StartIndent
	}
	return opts
}

type exportQuery struct {
	Filename string `schema:"filename"`
}

// renderRequest parses the format parameter and renders the session.
func (s *Server) renderRequest(r *http.Request) (string, core.ExportSpec, error) {
	format, err := core.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		return "", core.ExportSpec{}, err
	}
	spec, _ := core.SpecFor(format)

	var q renderQuery
	if err := decodeQuery(r, &q); err != nil {
		return "", spec, err
	}

	var out string
	err = s.service.Do(sessionID(r), func(ws *core.Workspace) error {
		var err error
		if q.empty() {
			out, err = ws.Render(format)
		} else {
			out, err = ws.RenderWith(format, q.apply(ws.Options()))
		}
		return err
	})
	return out, spec, err
}

func contentType(spec core.ExportSpec) string {
	return mime.FormatMediaType(spec.MIME, map[string]string{"charset": "utf-8"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	out, spec, err := s.renderRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.metrics.renders.WithLabelValues(string(spec.Format)).Inc()

	w.Header().Set("Content-Type", contentType(spec))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, out)
}

// handleExport serves the rendering as a file download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var q exportQuery
	if err := decodeQuery(r, &q); err != nil {
		respondError(w, r, err)
		return
	}

	out, spec, err := s.renderRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.metrics.exports.WithLabelValues(string(spec.Format)).Inc()

	name := core.ExportFilename(q.Filename, spec.Format)
	w.Header().Set("Content-Type", contentType(spec))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, out)
}
