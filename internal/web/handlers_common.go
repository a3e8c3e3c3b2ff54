package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

// maxBodySize caps JSON request bodies of edit endpoints.
const maxBodySize = 1 << 20

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// decodeQuery fills dst from the URL query.
func decodeQuery(r *http.Request, dst any) error {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return fmt.Errorf("%w: %v", errBadRequestBody, err)
	}
	return nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequestBody)
		}
		return fmt.Errorf("%w: %v", errBadRequestBody, err)
	}
	return nil
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// mutate runs fn on the request's workspace and answers with the updated
// view, or with the mapped error.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(*core.Workspace) error) {
	var view core.View
	err := s.service.Do(sessionID(r), func(ws *core.Workspace) error {
		if err := fn(ws); err != nil {
			return err
		}
		view = ws.View(s.cfg.Session.PreviewRows)
		return nil
	})
	s.metrics.observe(op, err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
