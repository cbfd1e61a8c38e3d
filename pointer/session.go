package pointer

import "github.com/digitorus/pdfink/overlay"

// Kind is the gesture a session performs.
type Kind int

const (
	// Drag moves the placement.
	Drag Kind = iota + 1
	// Resize changes the placement size.
	Resize
)

func (k Kind) String() string {
	switch k {
	case Drag:
		return "drag"
	case Resize:
		return "resize"
	default:
		return "none"
	}
}

// Session is the baseline of a gesture in progress. It is created when the
// gesture engages and discarded when it ends.
type Session struct {
	Kind Kind
	// Page is the page whose placement the gesture targets.
	Page int
	// Start is the container-relative pointer position at engagement.
	Start Point
	// Origin is the placement position (drag) or size (resize) at engagement.
	Origin Point
}

// Engage decides whether e starts a gesture on p and returns the session.
// A press on the body starts a drag. A mouse press on the resize handle
// starts a resize; touch has no resize. Presses on the delete control or
// outside the overlay start nothing.
func Engage(e Event, container Point, p overlay.Placement) (*Session, bool) {
	pos, ok := e.Position(container)
	if !ok {
		return nil, false
	}
	switch e.Target {
	case Body:
		return &Session{Kind: Drag, Page: p.Page, Start: pos, Origin: Point{X: p.X, Y: p.Y}}, true
	case ResizeHandle:
		if e.Modality != Mouse {
			return nil, false
		}
		return &Session{Kind: Resize, Page: p.Page, Start: pos, Origin: Point{X: p.Width, Y: p.Height}}, true
	default:
		return nil, false
	}
}

// Apply returns the unclamped value for the current pointer event: the
// baseline origin plus the pointer delta since engagement. The caller applies
// clamps through the overlay model.
func (s *Session) Apply(e Event, container Point) (Point, bool) {
	pos, ok := e.Position(container)
	if !ok {
		return Point{}, false
	}
	d := pos.Sub(s.Start)
	return Point{X: s.Origin.X + d.X, Y: s.Origin.Y + d.Y}, true
}
