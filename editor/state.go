// Package editor coordinates the signature editor as one explicit state value
// updated by named actions.
package editor

import (
	"errors"
	"math"

	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/overlay"
	"github.com/digitorus/pdfink/pointer"
)

var (
	// ErrNoDocument is returned by actions that need an open document.
	ErrNoDocument = errors.New("no document loaded")
	// ErrInputMissing is returned by Export when there is nothing to export.
	ErrInputMissing = pdfink.ErrInputMissing
)

// Zoom bounds and step. Zoom is a display transform only.
const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 0.2
)

// View is the viewer state around the document.
type View struct {
	Page      int     `json:"page"`
	PageCount int     `json:"page_count"`
	Zoom      float64 `json:"zoom"`
	PadOpen   bool    `json:"pad_open"`
}

// State is the whole editor state.
type State struct {
	Document   *pdfink.Document
	View       View
	Overlay    *overlay.Model
	Dimensions overlay.Dimensions
	// Session is the drag or resize in progress, if any.
	Session *pointer.Session
}

// NewState returns an empty state whose overlay uses limits.
func NewState(limits overlay.Limits) State {
	return State{
		View:       View{Zoom: 1},
		Overlay:    overlay.New(limits),
		Dimensions: overlay.Dimensions{},
	}
}

// Clone returns a copy that shares nothing mutable with s. The document and
// session are immutable and shared.
func (s State) Clone() State {
	c := s
	if s.Overlay != nil {
		c.Overlay = s.Overlay.Clone()
	} else {
		c.Overlay = overlay.New(overlay.DefaultLimits)
	}
	if s.Dimensions != nil {
		c.Dimensions = s.Dimensions.Clone()
	} else {
		c.Dimensions = overlay.Dimensions{}
	}
	return c
}

// Current returns the placement on the current page.
func (s State) Current() (overlay.Placement, bool) {
	if s.Overlay == nil {
		return overlay.Placement{}, false
	}
	return s.Overlay.Get(s.View.Page)
}

// Snapshot is a serialisable summary of a State.
type Snapshot struct {
	Document   string              `json:"document,omitempty"`
	View       View                `json:"view"`
	Placements []overlay.Placement `json:"placements"`
	Dimensions overlay.Dimensions  `json:"dimensions,omitempty"`
	Session    string              `json:"session,omitempty"`
}

// Snapshot summarises s. Placement images are omitted.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{View: s.View, Placements: []overlay.Placement{}, Dimensions: s.Dimensions}
	if s.Document != nil {
		snap.Document = s.Document.Name
	}
	if s.Overlay != nil {
		_ = s.Overlay.Each(func(p overlay.Placement) error {
			snap.Placements = append(snap.Placements, p)
			return nil
		})
	}
	if s.Session != nil {
		snap.Session = s.Session.Kind.String()
	}
	return snap
}

func clampZoom(z float64) float64 {
	z = math.Round(z*10) / 10
	return min(MaxZoom, max(MinZoom, z))
}
