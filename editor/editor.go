package editor

import (
	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/overlay"
)

// DefaultLogLimit is the number of transitions an Editor keeps by default.
const DefaultLogLimit = 256

// Transition is one entry of the editor's audit log.
type Transition struct {
	Seq    int    `json:"seq"`
	Action string `json:"action"`
	Page   int    `json:"page"`
	Err    string `json:"error,omitempty"`
}

// Options configure an Editor.
type Options struct {
	Limits   overlay.Limits
	LogLimit int
}

// Editor owns a State and applies actions to it, keeping a log of every
// transition. An Editor is not safe for concurrent use.
type Editor struct {
	state    State
	log      []Transition
	seq      int
	logLimit int
}

// New returns an editor with no document loaded.
func New(opts Options) *Editor {
	limits := opts.Limits
	if limits == (overlay.Limits{}) {
		limits = overlay.DefaultLimits
	}
	if opts.LogLimit <= 0 {
		opts.LogLimit = DefaultLogLimit
	}
	return &Editor{state: NewState(limits), logLimit: opts.LogLimit}
}

// Dispatch reduces a into the current state and records the transition.
func (e *Editor) Dispatch(a Action) error {
	next, err := Reduce(e.state, a)
	e.record(a.Name(), next.View.Page, err)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// State returns a copy of the current state.
func (e *Editor) State() State {
	return e.state.Clone()
}

// Log returns the recorded transitions, oldest first.
func (e *Editor) Log() []Transition {
	return append([]Transition(nil), e.log...)
}

// Export stamps every placement into the open document and returns the
// resulting PDF.
func (e *Editor) Export() ([]byte, error) {
	out, err := pdfink.Export(e.state.Document, e.state.Overlay, e.state.Dimensions)
	e.record("Export", e.state.View.Page, err)
	return out, err
}

func (e *Editor) record(name string, page int, err error) {
	e.seq++
	t := Transition{Seq: e.seq, Action: name, Page: page}
	if err != nil {
		t.Err = err.Error()
	}
	e.log = append(e.log, t)
	if len(e.log) > e.logLimit {
		e.log = append(e.log[:0:0], e.log[len(e.log)-e.logLimit:]...)
	}
}
