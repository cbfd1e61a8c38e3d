// Package pointer turns mouse and touch input into drag and resize gestures
// on a signature placement.
//
// Both input modalities are represented by a single Event type; each modality
// only differs in how the pointer position is extracted. A gesture in progress
// is an explicit Session value that records its baseline and the page it was
// started on.
package pointer

// Modality identifies the input device that produced an event.
type Modality int

const (
	// Mouse events carry a single client position.
	Mouse Modality = iota
	// Touch events carry a list of touch points; only the first is used.
	Touch
)

func (m Modality) String() string {
	switch m {
	case Mouse:
		return "mouse"
	case Touch:
		return "touch"
	default:
		return "unknown"
	}
}

// Target identifies which part of the overlay an event landed on.
type Target int

const (
	// Outside is anywhere in the page container that is not the overlay.
	Outside Target = iota
	// Body is the signature image itself.
	Body
	// ResizeHandle is the bottom-right resize control.
	ResizeHandle
	// DeleteControl is the delete button on the overlay.
	DeleteControl
)

func (t Target) String() string {
	switch t {
	case Outside:
		return "outside"
	case Body:
		return "body"
	case ResizeHandle:
		return "resize"
	case DeleteControl:
		return "delete"
	default:
		return "unknown"
	}
}

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Event is a pointer event in client coordinates.
type Event struct {
	Modality Modality
	Target   Target
	// Client is the pointer position for mouse events.
	Client Point
	// Touches are the active touch points for touch events.
	Touches []Point
}

// MouseEvent returns a mouse event at (x, y).
func MouseEvent(target Target, x, y float64) Event {
	return Event{Modality: Mouse, Target: target, Client: Point{X: x, Y: y}}
}

// TouchEvent returns a touch event with the given touch points.
func TouchEvent(target Target, touches ...Point) Event {
	return Event{Modality: Touch, Target: target, Touches: touches}
}

// Position returns the event position relative to container, the top-left
// corner of the page container in client coordinates. It reports false when
// the event carries no usable position, such as a touch event without
// touches.
func (e Event) Position(container Point) (Point, bool) {
	var client Point
	switch e.Modality {
	case Mouse:
		client = e.Client
	case Touch:
		if len(e.Touches) == 0 {
			return Point{}, false
		}
		client = e.Touches[0]
	default:
		return Point{}, false
	}
	return client.Sub(container), true
}
