package editor

import (
	"fmt"

	"github.com/digitorus/pdfink/overlay"
	"github.com/digitorus/pdfink/pad"
	"github.com/digitorus/pdfink/pointer"
)

// Reduce applies a to s and returns the next state. s is never modified. On
// error the returned state is s.
func Reduce(s State, a Action) (State, error) {
	next := s.Clone()

	switch a := a.(type) {
	case LoadDocument:
		if a.Document == nil {
			return s, fmt.Errorf("load document: %w", ErrInputMissing)
		}
		next = NewState(next.Overlay.Limits())
		next.Document = a.Document
		next.View.Page = 1
		next.View.PageCount = a.Document.PageCount()
		return next, nil

	case CloseDocument:
		return NewState(next.Overlay.Limits()), nil

	case PageRendered:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		if a.Page < 1 || a.Page > s.View.PageCount {
			return s, fmt.Errorf("page rendered %d: %w", a.Page, overlay.ErrPageOutOfRange)
		}
		next.Dimensions.Record(a.Page, a.Width, a.Height)
		return next, nil

	case GoToPage:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		return next.goTo(a.Page), nil

	case NextPage:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		return next.goTo(s.View.Page + 1), nil

	case PrevPage:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		return next.goTo(s.View.Page - 1), nil

	case ZoomIn:
		next.View.Zoom = clampZoom(s.View.Zoom + ZoomStep)
		return next, nil

	case ZoomOut:
		next.View.Zoom = clampZoom(s.View.Zoom - ZoomStep)
		return next, nil

	case ZoomReset:
		next.View.Zoom = 1
		return next, nil

	case OpenPad:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		next.View.PadOpen = true
		return next, nil

	case CancelPad:
		next.View.PadOpen = false
		return next, nil

	case SaveSignature:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		if a.Surface == nil || a.Surface.IsEmpty() {
			return s, pad.ErrEmptySignature
		}
		img, err := a.Surface.PNG()
		if err != nil {
			return s, fmt.Errorf("save signature: %w", err)
		}
		next.Overlay.Set(overlay.NewPlacement(s.View.Page, img))
		next.View.PadOpen = false
		next.Session = nil
		return next, nil

	case DeleteSignature:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		next.Overlay.Remove(s.View.Page)
		next.Session = nil
		return next, nil

	case MoveToNextPage:
		if s.Document == nil {
			return s, ErrNoDocument
		}
		to := s.View.Page + 1
		if err := next.Overlay.Move(s.View.Page, to, s.View.PageCount); err != nil {
			return s, err
		}
		next.View.Page = to
		next.Session = nil
		return next, nil

	case PointerDown:
		if s.Session != nil {
			return s, nil
		}
		p, ok := s.Current()
		if !ok {
			return s, nil
		}
		session, ok := pointer.Engage(a.Event, a.Container, p)
		if !ok {
			return s, nil
		}
		next.Session = session
		return next, nil

	case PointerMove:
		if s.Session == nil {
			return s, nil
		}
		if s.Session.Page != s.View.Page {
			next.Session = nil
			return next, nil
		}
		if _, ok := s.Current(); !ok {
			next.Session = nil
			return next, nil
		}
		v, ok := s.Session.Apply(a.Event, a.Container)
		if !ok {
			return s, nil
		}
		var err error
		switch s.Session.Kind {
		case pointer.Drag:
			err = next.Overlay.Translate(s.View.Page, v.X, v.Y)
		case pointer.Resize:
			err = next.Overlay.Resize(s.View.Page, v.X, v.Y)
		}
		if err != nil {
			return s, err
		}
		return next, nil

	case PointerUp, PointerLeave:
		next.Session = nil
		return next, nil

	default:
		return s, fmt.Errorf("unknown action %T", a)
	}
}

// goTo clamps page to the document and drops a session bound to another page.
func (s State) goTo(page int) State {
	page = min(max(page, 1), max(s.View.PageCount, 1))
	if page != s.View.Page {
		s.Session = nil
	}
	s.View.Page = page
	return s
}
