package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of an upload is inspected for its content type.
const sniffLen = 3072

// multipartOverhead is allowed on top of the file size limit for form
// boundaries and headers.
const multipartOverhead = 64 << 10

// handleInput loads the raw request body as the session's input text.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	text, err := core.ReadInput(r.Body, s.cfg.Upload.MaxFileSize)
	if err != nil {
		s.metrics.loads.WithLabelValues("error").Inc()
		respondError(w, r, err)
		return
	}
	s.load(w, r, text)
}

// handleUpload loads a JSON file sent as the multipart field "file".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.metrics.loads.WithLabelValues("error").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, fmt.Errorf("%w: %v", core.ErrInputTooLarge, err))
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", errNoFile, err))
		return
	}
	defer file.Close()

	if header.Size > s.cfg.Upload.MaxFileSize {
		s.metrics.loads.WithLabelValues("error").Inc()
		respondError(w, r, fmt.Errorf("%w: %d bytes", core.ErrInputTooLarge, header.Size))
		return
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		respondError(w, r, err)
		return
	}
	head = head[:n]

	if !core.IsJSONUpload(header.Filename, header.Header.Get("Content-Type"), head) {
		s.metrics.loads.WithLabelValues("rejected").Inc()
		respondError(w, r, fmt.Errorf("%w: %s (%s)", errNotJSONFile, header.Filename, mimetype.Detect(head).String()))
		return
	}

	text, err := core.ReadInput(io.MultiReader(bytes.NewReader(head), file), s.cfg.Upload.MaxFileSize)
	if err != nil {
		s.metrics.loads.WithLabelValues("error").Inc()
		respondError(w, r, err)
		return
	}
	s.load(w, r, text)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, text string) {
	var view core.View
	err := s.service.Do(sessionID(r), func(ws *core.Workspace) error {
		if err := ws.Load(text); err != nil {
			return err
		}
		view = ws.View(s.cfg.Session.PreviewRows)
		return nil
	})

	if err != nil {
		s.metrics.loads.WithLabelValues("error").Inc()
		respondError(w, r, err)
		return
	}
	s.metrics.loads.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, view)
}
