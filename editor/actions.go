package editor

import (
	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/pointer"
)

// Action is a named user intent applied by Reduce.
type Action interface {
	Name() string
}

// Surface is a drawing surface that can hand over a signature raster.
type Surface interface {
	IsEmpty() bool
	PNG() ([]byte, error)
}

type (
	// LoadDocument replaces the open document and resets the editor.
	LoadDocument struct{ Document *pdfink.Document }
	// CloseDocument discards the open document and every placement.
	CloseDocument struct{}
	// PageRendered records the display size a page raster was produced at.
	PageRendered struct {
		Page          int
		Width, Height float64
	}
	// GoToPage jumps to a page, clamped to the document.
	GoToPage struct{ Page int }
	// NextPage advances one page.
	NextPage struct{}
	// PrevPage goes back one page.
	PrevPage struct{}
	// ZoomIn increases the zoom by one step.
	ZoomIn struct{}
	// ZoomOut decreases the zoom by one step.
	ZoomOut struct{}
	// ZoomReset restores the zoom to 1.
	ZoomReset struct{}
	// OpenPad shows the drawing pad.
	OpenPad struct{}
	// CancelPad hides the drawing pad without saving.
	CancelPad struct{}
	// SaveSignature stores the surface raster on the current page.
	SaveSignature struct{ Surface Surface }
	// DeleteSignature removes the placement on the current page.
	DeleteSignature struct{}
	// MoveToNextPage carries the current placement to the next page and
	// follows it there.
	MoveToNextPage struct{}
	// PointerDown may engage a drag or resize on the current placement.
	PointerDown struct {
		Event     pointer.Event
		Container pointer.Point
	}
	// PointerMove updates the placement of the live session.
	PointerMove struct {
		Event     pointer.Event
		Container pointer.Point
	}
	// PointerUp ends the live session.
	PointerUp struct{}
	// PointerLeave ends the live session when the pointer leaves the page.
	PointerLeave struct{}
)

func (LoadDocument) Name() string    { return "LoadDocument" }
func (CloseDocument) Name() string   { return "CloseDocument" }
func (PageRendered) Name() string    { return "PageRendered" }
func (GoToPage) Name() string        { return "GoToPage" }
func (NextPage) Name() string        { return "NextPage" }
func (PrevPage) Name() string        { return "PrevPage" }
func (ZoomIn) Name() string          { return "ZoomIn" }
func (ZoomOut) Name() string         { return "ZoomOut" }
func (ZoomReset) Name() string       { return "ZoomReset" }
func (OpenPad) Name() string         { return "OpenPad" }
func (CancelPad) Name() string       { return "CancelPad" }
func (SaveSignature) Name() string   { return "SaveSignature" }
func (DeleteSignature) Name() string { return "DeleteSignature" }
func (MoveToNextPage) Name() string  { return "MoveToNextPage" }
func (PointerDown) Name() string     { return "PointerDown" }
func (PointerMove) Name() string     { return "PointerMove" }
func (PointerUp) Name() string       { return "PointerUp" }
func (PointerLeave) Name() string    { return "PointerLeave" }
