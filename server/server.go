// Package server exposes the signature editor over HTTP.
//
// One editor session is shared by every request. Requests are serialised on
// a single mutex; a document load or export that arrives while another one
// is still running is rejected with 409 Conflict instead of queueing.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/digitorus/pdfink/editor"
	"github.com/digitorus/pdfink/host"
	"github.com/digitorus/pdfink/pad"
	"github.com/sirupsen/logrus"
)

// ErrBusy is returned when a load or export is already in progress.
var ErrBusy = errors.New("another load or export is in progress")

// Options configure a Server.
type Options struct {
	Editor       editor.Options
	DisplayWidth float64
	Producer     string
	Filename     string
	MaxUpload    int64

	PadWidth    int
	PadHeight   int
	PenWidth    float64
	ReadTimeout time.Duration
	// WriteTimeout also bounds export.
	WriteTimeout time.Duration

	Renderer host.Renderer
	Logger   *logrus.Logger
}

// Server is the HTTP editor.
type Server struct {
	opts Options
	log  *logrus.Logger

	mu     sync.Mutex
	editor *editor.Editor
	busy   atomic.Bool

	mux *http.ServeMux
}

// New returns a server with a fresh editor session.
func New(opts Options) *Server {
	if opts.DisplayWidth <= 0 {
		opts.DisplayWidth = host.DefaultDisplayWidth
	}
	if opts.Filename == "" {
		opts.Filename = "signed.pdf"
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 64 << 20
	}
	if opts.PadWidth <= 0 {
		opts.PadWidth = pad.DefaultWidth
	}
	if opts.PadHeight <= 0 {
		opts.PadHeight = pad.DefaultHeight
	}
	if opts.PenWidth <= 0 {
		opts.PenWidth = pad.DefaultPenWidth
	}
	if opts.Renderer == nil {
		opts.Renderer = host.NewPDFCPU()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	s := &Server{
		opts:   opts,
		log:    opts.Logger,
		editor: editor.New(opts.Editor),
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /document", s.handleLoad)
	s.mux.HandleFunc("DELETE /document", s.handleClose)
	s.mux.HandleFunc("GET /state", s.handleState)
	s.mux.HandleFunc("GET /log", s.handleLog)
	s.mux.HandleFunc("POST /view/page", s.handlePage)
	s.mux.HandleFunc("POST /view/zoom", s.handleZoom)
	s.mux.HandleFunc("POST /pad/open", s.handleAction(editor.OpenPad{}))
	s.mux.HandleFunc("POST /pad/cancel", s.handleAction(editor.CancelPad{}))
	s.mux.HandleFunc("POST /signature", s.handleSaveSignature)
	s.mux.HandleFunc("DELETE /signature", s.handleAction(editor.DeleteSignature{}))
	s.mux.HandleFunc("POST /signature/next", s.handleMoveNext)
	s.mux.HandleFunc("POST /pointer", s.handlePointer)
	s.mux.HandleFunc("GET /pages/{n}/preview.png", s.handlePreview)
	s.mux.HandleFunc("GET /export", s.handleExport)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	entry := s.log.WithFields(logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"status":   rec.status,
		"duration": time.Since(start),
	})
	if rec.status >= http.StatusInternalServerError {
		entry.Warn("request failed")
		return
	}
	entry.Debug("request")
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("editor listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// acquire marks a load or export as running.
func (s *Server) acquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Server) release() {
	s.busy.Store(false)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
