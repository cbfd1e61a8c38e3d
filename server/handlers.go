package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/editor"
	"github.com/digitorus/pdfink/host"
	"github.com/digitorus/pdfink/overlay"
	"github.com/digitorus/pdfink/pad"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !s.acquire() {
		s.fail(w, ErrBusy)
		return
	}
	defer s.release()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(data) == 0 {
		s.fail(w, fmt.Errorf("load document: %w", pdfink.ErrInputMissing))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "document.pdf"
	}
	doc, err := pdfink.OpenBytes(name, data)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if s.opts.Producer != "" {
		doc.SetProducer(s.opts.Producer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Dispatch(editor.LoadDocument{Document: doc}); err != nil {
		s.fail(w, err)
		return
	}
	s.renderCurrent()

	s.log.WithFields(logrus.Fields{
		"document": name,
		"pages":    doc.PageCount(),
		"bytes":    len(data),
	}).Info("document loaded")
	s.writeState(w)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, editor.CloseDocument{})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeState(w)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	log := s.editor.Log()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := req.action()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Dispatch(a); err != nil {
		s.fail(w, err)
		return
	}
	s.renderCurrent()
	s.writeState(w)
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := req.action()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.dispatch(w, a)
}

func (s *Server) handleAction(a editor.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.dispatch(w, a)
	}
}

func (s *Server) handleSaveSignature(w http.ResponseWriter, r *http.Request) {
	var req signatureRequest
	if !s.decode(w, r, &req) {
		return
	}
	width, height := req.Width, req.Height
	if width <= 0 {
		width = s.opts.PadWidth
	}
	if height <= 0 {
		height = s.opts.PadHeight
	}
	p := pad.New(width, height, s.opts.PenWidth)
	for _, stroke := range req.Strokes {
		p.AddStroke(stroke)
	}
	s.dispatch(w, editor.SaveSignature{Surface: p})
}

func (s *Server) handleMoveNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Dispatch(editor.MoveToNextPage{}); err != nil {
		s.fail(w, err)
		return
	}
	s.renderCurrent()
	s.writeState(w)
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := req.action()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.dispatch(w, a)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid page %q", r.PathValue("n")))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.editor.State()
	if st.Document == nil {
		s.fail(w, editor.ErrNoDocument)
		return
	}
	page, err := s.render(n)
	if err != nil {
		s.fail(w, err)
		return
	}

	var placements []overlay.Placement
	if p, ok := s.editor.State().Overlay.Get(n); ok {
		placements = append(placements, p)
	}
	img, err := host.Preview(page, placements)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	data, err := host.EncodePNG(img)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.acquire() {
		s.fail(w, ErrBusy)
		return
	}
	defer s.release()

	s.mu.Lock()
	out, err := s.editor.Export()
	page := s.editor.State().View.Page
	s.mu.Unlock()
	if err != nil {
		s.fail(w, err)
		return
	}

	s.log.WithFields(logrus.Fields{
		"bytes": len(out),
		"page":  page,
	}).Info("document exported")

	w.Header().Set("Content-Type", pdfink.ExportMIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.opts.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

// dispatch applies a under the session lock and answers with the new state.
func (s *Server) dispatch(w http.ResponseWriter, a editor.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Dispatch(a); err != nil {
		s.fail(w, err)
		return
	}
	s.writeState(w)
}

// render produces page n and records the size it was displayed at. The
// caller holds s.mu.
func (s *Server) render(n int) (*host.Page, error) {
	st := s.editor.State()
	page, err := s.opts.Renderer.RenderPage(st.Document.Source(), n, s.opts.DisplayWidth)
	if err != nil {
		if errors.Is(err, host.ErrPageOutOfRange) {
			return nil, fmt.Errorf("render page %d: %w", n, overlay.ErrPageOutOfRange)
		}
		return nil, &pdfink.ExportError{Op: "render", Page: n, Err: err}
	}
	if err := s.editor.Dispatch(editor.PageRendered{Page: n, Width: page.Width, Height: page.Height}); err != nil {
		return nil, err
	}
	return page, nil
}

// renderCurrent records the display size of the current page. Failures are
// logged; export falls back to the default display size.
func (s *Server) renderCurrent() {
	st := s.editor.State()
	if st.Document == nil {
		return
	}
	if _, ok := st.Dimensions[st.View.Page]; ok {
		return
	}
	if _, err := s.render(st.View.Page); err != nil {
		s.log.WithError(err).WithField("page", st.View.Page).Warn("page render failed")
	}
}

func (s *Server) writeState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, s.editor.State().Snapshot())
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// fail answers with the status matching err.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.writeError(w, statusFor(err), err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var exportErr *pdfink.ExportError
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, pdfink.ErrInputMissing),
		errors.Is(err, pad.ErrEmptySignature),
		errors.Is(err, editor.ErrNoDocument),
		errors.Is(err, overlay.ErrPageOutOfRange),
		errors.Is(err, overlay.ErrNoPlacement):
		return http.StatusBadRequest
	case errors.As(err, &exportErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
