package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/editor"
	"github.com/digitorus/pdfink/host"
	"github.com/digitorus/pdfink/internal/testpdf"
	"github.com/digitorus/pdfink/overlay"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// fixedRenderer renders every page at the same display size.
type fixedRenderer struct {
	pages         int
	width, height float64
}

func (f fixedRenderer) PageCount(io.ReadSeeker) (int, error) {
	return f.pages, nil
}

func (f fixedRenderer) RenderPage(_ io.ReadSeeker, page int, _ float64) (*host.Page, error) {
	if page < 1 || page > f.pages {
		return nil, host.ErrPageOutOfRange
	}
	raster := image.NewRGBA(image.Rect(0, 0, int(f.width), int(f.height)))
	return &host.Page{Number: page, Raster: raster, Width: f.width, Height: f.height}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard
	return New(Options{
		Renderer: fixedRenderer{pages: 2, width: 600, height: 776},
		Logger:   logger,
		Producer: "pdfink test",
	})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func snapshot(t *testing.T, rec *httptest.ResponseRecorder) editor.Snapshot {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap editor.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func twoPages() []byte {
	return testpdf.Build(testpdf.Options{Pages: []testpdf.Size{testpdf.Letter, testpdf.Letter}})
}

var signature = map[string]any{
	"strokes": [][]map[string]float64{
		{{"x": 10, "y": 100}, {"x": 200, "y": 80}, {"x": 400, "y": 120}},
	},
}

func TestEditorFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	snap := snapshot(t, do(t, s, http.MethodPost, "/document?name=contract.pdf", twoPages()))
	require.Equal(t, "contract.pdf", snap.Document)
	require.Equal(t, editor.View{Page: 1, PageCount: 2, Zoom: 1}, snap.View)
	require.Equal(t, overlay.Size{Width: 600, Height: 776}, snap.Dimensions[1])

	rec = do(t, s, http.MethodPost, "/signature", map[string]any{"strokes": [][]map[string]float64{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "draw your signature first")

	snapshot(t, do(t, s, http.MethodPost, "/pad/open", nil))
	snap = snapshot(t, do(t, s, http.MethodPost, "/signature", signature))
	require.False(t, snap.View.PadOpen)
	require.Len(t, snap.Placements, 1)

	container := map[string]float64{"x": 10, "y": 20}
	snapshot(t, do(t, s, http.MethodPost, "/pointer", map[string]any{
		"type": "down", "target": "body", "client": map[string]float64{"x": 70, "y": 80}, "container": container,
	}))
	snapshot(t, do(t, s, http.MethodPost, "/pointer", map[string]any{
		"type": "move", "target": "body", "client": map[string]float64{"x": 90, "y": 110}, "container": container,
	}))
	snap = snapshot(t, do(t, s, http.MethodPost, "/pointer", map[string]any{"type": "up"}))
	require.Empty(t, snap.Session)
	require.Equal(t, 70.0, snap.Placements[0].X)
	require.Equal(t, 80.0, snap.Placements[0].Y)

	snap = snapshot(t, do(t, s, http.MethodPost, "/signature/next", nil))
	require.Equal(t, 2, snap.View.Page)
	require.Equal(t, 2, snap.Placements[0].Page)
	require.Contains(t, snap.Dimensions, 2)

	rec = do(t, s, http.MethodPost, "/signature/next", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/pages/2/preview.png", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 600, img.Bounds().Dx())

	rec = do(t, s, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="signed.pdf"`, rec.Header().Get("Content-Disposition"))
	signed, err := pdfink.OpenBytes("signed.pdf", rec.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, "pdfink test", signed.Reader().Trailer().Key("Info").Key("Producer").Text())

	rec = do(t, s, http.MethodGet, "/log", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var log []editor.Transition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &log))
	require.NotEmpty(t, log)
	require.Equal(t, "Export", log[len(log)-1].Action)

	snap = snapshot(t, do(t, s, http.MethodDelete, "/document", nil))
	require.Empty(t, snap.Document)
	require.Empty(t, snap.Placements)
}

func TestNavigationAndZoom(t *testing.T) {
	s := newTestServer(t)
	snapshot(t, do(t, s, http.MethodPost, "/document", twoPages()))

	tests := []struct {
		path     string
		body     any
		wantPage int
		wantZoom float64
	}{
		{"/view/page", map[string]any{"action": "next"}, 2, 1},
		{"/view/page", map[string]any{"action": "next"}, 2, 1},
		{"/view/page", map[string]any{"action": "prev"}, 1, 1},
		{"/view/page", map[string]any{"action": "goto", "page": 9}, 2, 1},
		{"/view/zoom", map[string]any{"action": "in"}, 2, 1.2},
		{"/view/zoom", map[string]any{"action": "out"}, 2, 1},
		{"/view/zoom", map[string]any{"action": "out"}, 2, 0.8},
		{"/view/zoom", map[string]any{"action": "reset"}, 2, 1},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d%s", i, tt.path), func(t *testing.T) {
			snap := snapshot(t, do(t, s, http.MethodPost, tt.path, tt.body))
			require.Equal(t, tt.wantPage, snap.View.Page)
			require.InDelta(t, tt.wantZoom, snap.View.Zoom, 1e-9)
		})
	}
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"empty upload", http.MethodPost, "/document", nil, http.StatusBadRequest},
		{"not a pdf", http.MethodPost, "/document", "hello", http.StatusUnprocessableEntity},
		{"open pad without document", http.MethodPost, "/pad/open", nil, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/view/zoom", "{", http.StatusBadRequest},
		{"unknown zoom", http.MethodPost, "/view/zoom", map[string]any{"action": "sideways"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/view/page", map[string]any{"action": "next", "extra": 1}, http.StatusBadRequest},
		{"unknown target", http.MethodPost, "/pointer", map[string]any{"type": "down", "target": "corner"}, http.StatusBadRequest},
		{"bad preview page", http.MethodGet, "/pages/x/preview.png", nil, http.StatusBadRequest},
		{"preview without document", http.MethodGet, "/pages/1/preview.png", nil, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/document", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestBusy(t *testing.T) {
	s := newTestServer(t)
	snapshot(t, do(t, s, http.MethodPost, "/document", twoPages()))

	require.True(t, s.acquire())
	rec := do(t, s, http.MethodPost, "/document", twoPages())
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, s, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	snapshot(t, do(t, s, http.MethodGet, "/state", nil))
	s.release()

	rec = do(t, s, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, "no placements yet")
}

func TestUploadLimit(t *testing.T) {
	logger := logrus.New()
	logger.Out = io.Discard
	s := New(Options{Renderer: fixedRenderer{pages: 2, width: 600, height: 776}, Logger: logger, MaxUpload: 16})

	rec := do(t, s, http.MethodPost, "/document", twoPages())
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
