// validate.go — Structural validation of frames, text slots, and campaigns.
package layout

import "fmt"

// ValidationError reports a field that violates a model invariant. The edit
// or persist operation that produced it is rejected; prior state is kept.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the frame's size floor, position, and shape.
func (f Frame) Validate() error {
	if f.Width < MinFrameSize || f.Height < MinFrameSize {
		return &ValidationError{"frame", fmt.Sprintf("size %dx%d below minimum %d", f.Width, f.Height, MinFrameSize)}
	}
	if f.X < 0 || f.Y < 0 {
		return &ValidationError{"frame", fmt.Sprintf("negative position (%d,%d)", f.X, f.Y)}
	}
	if !f.Shape.Valid() {
		return &ValidationError{"frame.shape", fmt.Sprintf("unknown shape %q", f.Shape)}
	}
	return nil
}

// Validate checks the text slot's styling invariants.
func (t *TextSlot) Validate() error {
	if t == nil {
		return nil
	}
	if t.FontSize <= 0 {
		return &ValidationError{"text.fontSize", fmt.Sprintf("must be positive, got %d", t.FontSize)}
	}
	if t.FontFamily == "" {
		return &ValidationError{"text.fontFamily", "must not be empty"}
	}
	if t.Color == "" {
		return &ValidationError{"text.color", "must not be empty"}
	}
	if !t.Align.Valid() {
		return &ValidationError{"text.align", fmt.Sprintf("unknown alignment %q", t.Align)}
	}
	return nil
}

// Validate checks a campaign before it is persisted.
func (c Campaign) Validate() error {
	if c.Title == "" {
		return &ValidationError{"title", "must not be empty"}
	}
	if c.BaseImageURL == "" {
		return &ValidationError{"baseImageUrl", "must not be empty"}
	}
	if err := c.Frame.Validate(); err != nil {
		return err
	}
	return c.Text.Validate()
}
