package server

import (
	"fmt"

	"github.com/digitorus/pdfink/editor"
	"github.com/digitorus/pdfink/pad"
	"github.com/digitorus/pdfink/pointer"
)

type pageRequest struct {
	// Action is one of "next", "prev" or "goto".
	Action string `json:"action"`
	Page   int    `json:"page,omitempty"`
}

func (r pageRequest) action() (editor.Action, error) {
	switch r.Action {
	case "next":
		return editor.NextPage{}, nil
	case "prev":
		return editor.PrevPage{}, nil
	case "goto", "":
		if r.Page == 0 {
			return nil, fmt.Errorf("page is required")
		}
		return editor.GoToPage{Page: r.Page}, nil
	default:
		return nil, fmt.Errorf("unknown page action %q", r.Action)
	}
}

type zoomRequest struct {
	// Action is one of "in", "out" or "reset".
	Action string `json:"action"`
}

func (r zoomRequest) action() (editor.Action, error) {
	switch r.Action {
	case "in":
		return editor.ZoomIn{}, nil
	case "out":
		return editor.ZoomOut{}, nil
	case "reset":
		return editor.ZoomReset{}, nil
	default:
		return nil, fmt.Errorf("unknown zoom action %q", r.Action)
	}
}

type signatureRequest struct {
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
	Strokes [][]pad.Point `json:"strokes"`
}

type pointerRequest struct {
	// Type is one of "down", "move", "up" or "leave".
	Type      string          `json:"type"`
	Modality  string          `json:"modality"`
	Target    string          `json:"target"`
	Client    pointer.Point   `json:"client"`
	Touches   []pointer.Point `json:"touches,omitempty"`
	Container pointer.Point   `json:"container"`
}

var targets = map[string]pointer.Target{
	"":        pointer.Outside,
	"outside": pointer.Outside,
	"body":    pointer.Body,
	"resize":  pointer.ResizeHandle,
	"delete":  pointer.DeleteControl,
}

func (r pointerRequest) event() (pointer.Event, error) {
	target, ok := targets[r.Target]
	if !ok {
		return pointer.Event{}, fmt.Errorf("unknown pointer target %q", r.Target)
	}
	switch r.Modality {
	case "mouse", "":
		return pointer.MouseEvent(target, r.Client.X, r.Client.Y), nil
	case "touch":
		return pointer.TouchEvent(target, r.Touches...), nil
	default:
		return pointer.Event{}, fmt.Errorf("unknown pointer modality %q", r.Modality)
	}
}

func (r pointerRequest) action() (editor.Action, error) {
	switch r.Type {
	case "up":
		return editor.PointerUp{}, nil
	case "leave":
		return editor.PointerLeave{}, nil
	}
	e, err := r.event()
	if err != nil {
		return nil, err
	}
	switch r.Type {
	case "down":
		return editor.PointerDown{Event: e, Container: r.Container}, nil
	case "move":
		return editor.PointerMove{Event: e, Container: r.Container}, nil
	default:
		return nil, fmt.Errorf("unknown pointer event %q", r.Type)
	}
}
