// Package editor holds the interactive layout-authoring state machine.
//
// A Session owns the canonical Frame and optional text anchor. Handle
// widgets are controlled views: they report drags and transforms up, and the
// session emits the authoritative state down after every accepted change.
// The session never stores a transient scale factor; transforms are folded
// into absolute width/height before commit.
package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/asejik/dp-generator/pkg/layout"
)

// ErrFrameTooSmall rejects a resize that would shrink the frame below the
// minimum size. The previous box is kept.
var ErrFrameTooSmall = errors.New("editor: frame below minimum size")

// ErrNoSelection rejects a drag when nothing is selected.
var ErrNoSelection = errors.New("editor: nothing selected")

// Target identifies which element is selected, if any.
type Target int

const (
	TargetNone Target = iota
	TargetFrame
	TargetText
)

// Anchor is the position-only text state the editor emits. Styling fields
// are constants owned by the persistence layer, not editable here.
type Anchor struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Change is the full state pair emitted to the caller on every mutation.
// Text is nil when the campaign collects no name.
type Change struct {
	Frame layout.Frame
	Text  *Anchor
}

// Session is a single-author editing session over one campaign layout.
type Session struct {
	frame    layout.Frame
	text     *Anchor
	selected Target
	onChange func(Change)
}

// NewSession starts from the default frame with no text anchor.
func NewSession(onChange func(Change)) *Session {
	s := &Session{
		frame:    layout.DefaultFrame(),
		onChange: onChange,
	}
	s.emit()
	return s
}

// NewSessionFromCampaign seeds the session from a previously persisted
// campaign, for the edit-and-republish flow.
func NewSessionFromCampaign(c layout.Campaign, onChange func(Change)) *Session {
	s := &Session{
		frame:    c.Frame,
		onChange: onChange,
	}
	if c.Text != nil {
		s.text = &Anchor{X: c.Text.X, Y: c.Text.Y}
	}
	s.emit()
	return s
}

// Frame returns the current frame.
func (s *Session) Frame() layout.Frame { return s.frame }

// Text returns the current anchor, or nil when the name is disabled.
func (s *Session) Text() *Anchor {
	if s.text == nil {
		return nil
	}
	a := *s.text
	return &a
}

// Selected returns the currently selected element.
func (s *Session) Selected() Target { return s.selected }

// Select marks one element as selected, deselecting the other. Selecting
// the text anchor while the name is disabled is ignored.
func (s *Session) Select(t Target) {
	if t == TargetText && s.text == nil {
		return
	}
	s.selected = t
}

// ClearSelection deselects everything (click on empty canvas).
func (s *Session) ClearSelection() {
	s.selected = TargetNone
}

// DragTo moves the selected element to the given position, rounded to the
// nearest canonical unit.
func (s *Session) DragTo(x, y float64) error {
	xi, yi := round(x), round(y)
	switch s.selected {
	case TargetFrame:
		s.frame.X, s.frame.Y = xi, yi
	case TargetText:
		s.text.X, s.text.Y = xi, yi
	default:
		return ErrNoSelection
	}
	s.emit()
	return nil
}

// ResizeFrame applies a completed transform to the frame: the handle's
// transient scale factors are folded into absolute width/height and the
// result committed, so no consumer ever sees a scale multiplier. Proposals
// below the minimum size are rejected and the previous box kept.
func (s *Session) ResizeFrame(x, y, scaleX, scaleY float64) error {
	w := round(float64(s.frame.Width) * scaleX)
	h := round(float64(s.frame.Height) * scaleY)
	if w < layout.MinFrameSize || h < layout.MinFrameSize {
		return fmt.Errorf("%w: %dx%d", ErrFrameTooSmall, w, h)
	}
	s.frame.X, s.frame.Y = round(x), round(y)
	s.frame.Width, s.frame.Height = w, h
	s.emit()
	return nil
}

// SetShape toggles between rectangle and circle, preserving position and
// size. Only the guide and later clip geometry change.
func (s *Session) SetShape(shape layout.Shape) error {
	if !shape.Valid() {
		return &layout.ValidationError{Field: "frame.shape", Reason: fmt.Sprintf("unknown shape %q", shape)}
	}
	s.frame.Shape = shape
	s.emit()
	return nil
}

// SetIncludeName toggles whether a name is collected. Enabling (re)creates
// the anchor at the default position; any position edited before a previous
// disable is not remembered.
func (s *Session) SetIncludeName(include bool) {
	if include {
		if s.text == nil {
			s.text = &Anchor{X: layout.DefaultTextX, Y: layout.DefaultTextY}
		}
	} else {
		s.text = nil
		if s.selected == TargetText {
			s.selected = TargetNone
		}
	}
	s.emit()
}

// IncludeName reports whether a text anchor currently exists.
func (s *Session) IncludeName() bool { return s.text != nil }

func (s *Session) emit() {
	if s.onChange == nil {
		return
	}
	s.onChange(Change{Frame: s.frame, Text: s.Text()})
}

func round(v float64) int {
	return int(math.Round(v))
}
