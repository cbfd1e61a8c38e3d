package editor

import (
	"errors"
	"testing"

	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/internal/testpdf"
	"github.com/digitorus/pdfink/overlay"
	"github.com/digitorus/pdfink/pad"
	"github.com/digitorus/pdfink/pointer"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument(t *testing.T, pages int) *pdfink.Document {
	t.Helper()
	sizes := make([]testpdf.Size, pages)
	for i := range sizes {
		sizes[i] = testpdf.Letter
	}
	doc, err := pdfink.OpenBytes("test.pdf", testpdf.Build(testpdf.Options{Pages: sizes}))
	require.NoError(t, err)
	return doc
}

func signedPad() *pad.Pad {
	p := pad.New(100, 40, 2)
	p.AddStroke([]pad.Point{{X: 10, Y: 20}, {X: 90, Y: 20}})
	return p
}

// loaded returns an editor with a document of the given page count and a
// signature on page 1.
func loaded(t *testing.T, pages int) *Editor {
	t.Helper()
	e := New(Options{})
	require.NoError(t, e.Dispatch(LoadDocument{Document: testDocument(t, pages)}))
	require.NoError(t, e.Dispatch(OpenPad{}))
	require.NoError(t, e.Dispatch(SaveSignature{Surface: signedPad()}))
	return e
}

var container = pointer.Point{X: 100, Y: 200}

func mouse(target pointer.Target, x, y float64) pointer.Event {
	return pointer.MouseEvent(target, container.X+x, container.Y+y)
}

func placement(t *testing.T, e *Editor) overlay.Placement {
	t.Helper()
	p, ok := e.State().Current()
	require.True(t, ok, "no placement on current page")
	return p
}

func TestLoadDocument(t *testing.T) {
	e := New(Options{})
	require.ErrorIs(t, e.Dispatch(LoadDocument{}), ErrInputMissing)

	require.NoError(t, e.Dispatch(LoadDocument{Document: testDocument(t, 3)}))
	s := e.State()
	assert.Equal(t, View{Page: 1, PageCount: 3, Zoom: 1}, s.View)
	assert.Equal(t, 0, s.Overlay.Len())

	require.NoError(t, e.Dispatch(OpenPad{}))
	require.NoError(t, e.Dispatch(SaveSignature{Surface: signedPad()}))
	require.NoError(t, e.Dispatch(LoadDocument{Document: testDocument(t, 2)}))
	s = e.State()
	assert.Equal(t, 0, s.Overlay.Len(), "loading a new document must drop placements")
	assert.Equal(t, 2, s.View.PageCount)

	require.NoError(t, e.Dispatch(CloseDocument{}))
	assert.Nil(t, e.State().Document)
}

func TestActionsNeedDocument(t *testing.T) {
	actions := []Action{
		GoToPage{Page: 2}, NextPage{}, PrevPage{}, OpenPad{},
		SaveSignature{Surface: signedPad()}, DeleteSignature{}, MoveToNextPage{},
		PageRendered{Page: 1, Width: 600, Height: 776},
	}
	for _, a := range actions {
		t.Run(a.Name(), func(t *testing.T) {
			e := New(Options{})
			assert.ErrorIs(t, e.Dispatch(a), ErrNoDocument)
		})
	}
}

func TestNavigation(t *testing.T) {
	e := New(Options{})
	require.NoError(t, e.Dispatch(LoadDocument{Document: testDocument(t, 3)}))

	tests := []struct {
		action Action
		want   int
	}{
		{PrevPage{}, 1},
		{NextPage{}, 2},
		{NextPage{}, 3},
		{NextPage{}, 3},
		{GoToPage{Page: 0}, 1},
		{GoToPage{Page: 99}, 3},
		{GoToPage{Page: 2}, 2},
	}
	for _, tt := range tests {
		require.NoError(t, e.Dispatch(tt.action))
		assert.Equal(t, tt.want, e.State().View.Page, "after %s", tt.action.Name())
	}
}

func TestZoomLeavesPlacementsAlone(t *testing.T) {
	e := loaded(t, 1)
	before := placement(t, e)

	for i := 0; i < 10; i++ {
		require.NoError(t, e.Dispatch(ZoomIn{}))
	}
	assert.Equal(t, MaxZoom, e.State().View.Zoom)

	for i := 0; i < 10; i++ {
		require.NoError(t, e.Dispatch(ZoomOut{}))
	}
	assert.Equal(t, MinZoom, e.State().View.Zoom)

	require.NoError(t, e.Dispatch(ZoomIn{}))
	assert.Equal(t, 0.7, e.State().View.Zoom)
	require.NoError(t, e.Dispatch(ZoomReset{}))
	assert.Equal(t, 1.0, e.State().View.Zoom)

	if diff := cmp.Diff(before, placement(t, e)); diff != "" {
		t.Errorf("zoom changed the placement (-before +after):\n%s", diff)
	}
}

func TestSaveSignature(t *testing.T) {
	e := New(Options{})
	require.NoError(t, e.Dispatch(LoadDocument{Document: testDocument(t, 2)}))
	require.NoError(t, e.Dispatch(OpenPad{}))

	before := e.State()
	err := e.Dispatch(SaveSignature{Surface: pad.New(10, 10, 1)})
	require.ErrorIs(t, err, pad.ErrEmptySignature)
	after := e.State()
	assert.True(t, after.View.PadOpen, "pad should stay open after an empty save")
	assert.Equal(t, before.Overlay.Len(), after.Overlay.Len())

	require.ErrorIs(t, e.Dispatch(SaveSignature{}), pad.ErrEmptySignature)

	require.NoError(t, e.Dispatch(SaveSignature{Surface: signedPad()}))
	s := e.State()
	assert.False(t, s.View.PadOpen)
	p := placement(t, e)
	assert.Equal(t, overlay.Placement{
		Page: 1, Image: p.Image,
		X: overlay.DefaultX, Y: overlay.DefaultY,
		Width: overlay.DefaultWidth, Height: overlay.DefaultHeight,
	}, p)
	assert.NotEmpty(t, p.Image)
}

func TestSaveReplacesPlacement(t *testing.T) {
	e := loaded(t, 1)
	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.Body, 60, 60), Container: container}))
	require.NoError(t, e.Dispatch(PointerMove{Event: mouse(pointer.Body, 90, 70), Container: container}))
	require.NoError(t, e.Dispatch(PointerUp{}))
	require.Equal(t, 80.0, placement(t, e).X)

	require.NoError(t, e.Dispatch(SaveSignature{Surface: signedPad()}))
	p := placement(t, e)
	assert.Equal(t, overlay.DefaultX, p.X, "a new save resets geometry")
	assert.Equal(t, 1, e.State().Overlay.Len())
}

func TestDrag(t *testing.T) {
	e := loaded(t, 1)

	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.Body, 60, 60), Container: container}))
	require.NotNil(t, e.State().Session)
	assert.Equal(t, pointer.Drag, e.State().Session.Kind)

	steps := []struct {
		x, y         float64
		wantX, wantY float64
	}{
		{x: 70, y: 65, wantX: 60, wantY: 55},
		{x: 0, y: 65, wantX: 0, wantY: 55},
		{x: 10, y: -100, wantX: 0, wantY: 0},
		{x: 260, y: 160, wantX: 250, wantY: 150},
	}
	for _, step := range steps {
		require.NoError(t, e.Dispatch(PointerMove{Event: mouse(pointer.Body, step.x, step.y), Container: container}))
		p := placement(t, e)
		assert.Equal(t, step.wantX, p.X)
		assert.Equal(t, step.wantY, p.Y)
		assert.Equal(t, overlay.DefaultWidth, p.Width, "drag must not resize")
	}

	require.NoError(t, e.Dispatch(PointerUp{}))
	assert.Nil(t, e.State().Session)

	require.NoError(t, e.Dispatch(PointerMove{Event: mouse(pointer.Body, 0, 0), Container: container}))
	assert.Equal(t, 250.0, placement(t, e).X, "moves after release are ignored")
}

func TestTouchDrag(t *testing.T) {
	e := loaded(t, 1)
	touch := func(x, y float64) pointer.Event {
		return pointer.TouchEvent(pointer.Body, pointer.Point{X: container.X + x, Y: container.Y + y}, pointer.Point{X: 1, Y: 1})
	}

	require.NoError(t, e.Dispatch(PointerDown{Event: touch(55, 55), Container: container}))
	require.NoError(t, e.Dispatch(PointerMove{Event: touch(75, 45), Container: container}))
	p := placement(t, e)
	assert.Equal(t, 70.0, p.X)
	assert.Equal(t, 40.0, p.Y)

	require.NoError(t, e.Dispatch(PointerUp{}))
	require.NoError(t, e.Dispatch(PointerDown{Event: pointer.TouchEvent(pointer.ResizeHandle, pointer.Point{X: 300, Y: 300}), Container: container}))
	assert.Nil(t, e.State().Session, "touch does not resize")
}

func TestResize(t *testing.T) {
	e := loaded(t, 1)

	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.ResizeHandle, 200, 125), Container: container}))
	require.NotNil(t, e.State().Session)
	assert.Equal(t, pointer.Resize, e.State().Session.Kind)

	steps := []struct {
		x, y         float64
		wantW, wantH float64
	}{
		{x: 250, y: 150, wantW: 200, wantH: 100},
		{x: 100, y: 100, wantW: 50, wantH: 50},
		{x: 0, y: 0, wantW: 50, wantH: 25},
		{x: 210, y: 125, wantW: 160, wantH: 75},
	}
	for _, step := range steps {
		require.NoError(t, e.Dispatch(PointerMove{Event: mouse(pointer.ResizeHandle, step.x, step.y), Container: container}))
		p := placement(t, e)
		assert.Equal(t, step.wantW, p.Width)
		assert.Equal(t, step.wantH, p.Height)
		assert.Equal(t, overlay.DefaultX, p.X, "resize must not move")
	}

	require.NoError(t, e.Dispatch(PointerLeave{}))
	assert.Nil(t, e.State().Session)
}

func TestPointerIgnored(t *testing.T) {
	e := loaded(t, 2)

	for _, target := range []pointer.Target{pointer.Outside, pointer.DeleteControl} {
		require.NoError(t, e.Dispatch(PointerDown{Event: mouse(target, 60, 60), Container: container}))
		assert.Nil(t, e.State().Session, "press on %s", target)
	}

	require.NoError(t, e.Dispatch(NextPage{}))
	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.Body, 60, 60), Container: container}))
	assert.Nil(t, e.State().Session, "no placement on page 2")
}

func TestPageChangeDropsSession(t *testing.T) {
	e := loaded(t, 2)
	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.Body, 60, 60), Container: container}))
	require.NotNil(t, e.State().Session)

	require.NoError(t, e.Dispatch(NextPage{}))
	assert.Nil(t, e.State().Session)

	require.NoError(t, e.Dispatch(PrevPage{}))
	require.NoError(t, e.Dispatch(PointerMove{Event: mouse(pointer.Body, 160, 160), Container: container}))
	assert.Equal(t, overlay.DefaultX, placement(t, e).X)
}

func TestDeleteSignature(t *testing.T) {
	e := loaded(t, 1)
	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.Body, 60, 60), Container: container}))
	require.NoError(t, e.Dispatch(DeleteSignature{}))

	s := e.State()
	assert.Equal(t, 0, s.Overlay.Len())
	assert.Nil(t, s.Session)

	require.NoError(t, e.Dispatch(DeleteSignature{}), "deleting nothing is a no-op")
}

func TestMoveToNextPage(t *testing.T) {
	e := loaded(t, 2)
	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.Body, 60, 60), Container: container}))
	require.NoError(t, e.Dispatch(PointerMove{Event: mouse(pointer.Body, 80, 90), Container: container}))
	require.NoError(t, e.Dispatch(PointerUp{}))
	moved := placement(t, e)

	require.NoError(t, e.Dispatch(MoveToNextPage{}))
	s := e.State()
	assert.Equal(t, 2, s.View.Page)
	assert.Equal(t, []int{2}, s.Overlay.Pages())

	p := placement(t, e)
	moved.Page = 2
	if diff := cmp.Diff(moved, p); diff != "" {
		t.Errorf("placement changed while moving (-want +got):\n%s", diff)
	}

	err := e.Dispatch(MoveToNextPage{})
	require.ErrorIs(t, err, overlay.ErrPageOutOfRange)
	s = e.State()
	assert.Equal(t, 2, s.View.Page)
	assert.Equal(t, []int{2}, s.Overlay.Pages(), "a failed move leaves the model untouched")
}

func TestPageRendered(t *testing.T) {
	e := loaded(t, 2)
	require.NoError(t, e.Dispatch(PageRendered{Page: 2, Width: 600, Height: 776.47}))
	assert.Equal(t, overlay.Size{Width: 600, Height: 776.47}, e.State().Dimensions.Lookup(2))

	err := e.Dispatch(PageRendered{Page: 3, Width: 600, Height: 800})
	assert.True(t, errors.Is(err, overlay.ErrPageOutOfRange))
}

func TestReduceDoesNotMutate(t *testing.T) {
	e := loaded(t, 2)
	s := e.State()
	before := s.Snapshot()

	next, err := Reduce(s, PointerDown{Event: mouse(pointer.Body, 60, 60), Container: container})
	require.NoError(t, err)
	next, err = Reduce(next, PointerMove{Event: mouse(pointer.Body, 200, 200), Container: container})
	require.NoError(t, err)
	_, err = Reduce(next, MoveToNextPage{})
	require.NoError(t, err)

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("Reduce mutated its input (-before +after):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	e := New(Options{})
	_, err := e.Export()
	require.ErrorIs(t, err, ErrInputMissing)

	e = loaded(t, 1)
	require.NoError(t, e.Dispatch(PageRendered{Page: 1, Width: 600, Height: 776.47}))
	out, err := e.Export()
	require.NoError(t, err)

	signed, err := pdfink.OpenBytes(pdfink.ExportFilename, out)
	require.NoError(t, err)
	assert.Equal(t, 1, signed.PageCount())
}

func TestLog(t *testing.T) {
	e := New(Options{LogLimit: 3})
	require.NoError(t, e.Dispatch(LoadDocument{Document: testDocument(t, 2)}))
	require.Error(t, e.Dispatch(SaveSignature{}))
	require.NoError(t, e.Dispatch(NextPage{}))
	require.NoError(t, e.Dispatch(ZoomIn{}))

	log := e.Log()
	want := []Transition{
		{Seq: 2, Action: "SaveSignature", Page: 1, Err: pad.ErrEmptySignature.Error()},
		{Seq: 3, Action: "NextPage", Page: 2},
		{Seq: 4, Action: "ZoomIn", Page: 2},
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("Log() mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot(t *testing.T) {
	e := loaded(t, 1)
	require.NoError(t, e.Dispatch(PointerDown{Event: mouse(pointer.ResizeHandle, 200, 125), Container: container}))

	snap := e.State().Snapshot()
	assert.Equal(t, "test.pdf", snap.Document)
	assert.Equal(t, "resize", snap.Session)
	require.Len(t, snap.Placements, 1)
	assert.Equal(t, 1, snap.Placements[0].Page)
}
