// Package layout defines the campaign geometry model shared by the editor,
// the cropper, and the compositor.
//
// All coordinates live in a fixed 1080×1080 canonical canvas regardless of
// how a client displays them. Display scaling is a view transform and is
// never baked into stored values.
package layout

import "time"

// CanvasSize is the side of the square canonical canvas in logical units.
const CanvasSize = 1080

// MinFrameSize is the smallest width/height a frame may be resized to.
const MinFrameSize = 5

// ── Shape / alignment enums ──

// Shape selects the clip geometry of a photo frame.
type Shape string

const (
	ShapeRect   Shape = "rect"
	ShapeCircle Shape = "circle"
)

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s == ShapeRect || s == ShapeCircle
}

// Align positions name text relative to the full canvas width.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Valid reports whether a is a known alignment.
func (a Align) Valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}

// ── Frame ──

// Frame is the photo slot: position and size in canonical units plus the
// clip shape. For circles Width/Height describe the bounding box; the clip
// radius is always Width/2 (see ClipCircle). Rotation is reserved and never
// set by the editor.
type Frame struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Shape    Shape   `json:"shape"`
	Rotation float64 `json:"rotation,omitempty"`
}

// AspectRatio returns width/height, the ratio a cropped photo must match.
func (f Frame) AspectRatio() float64 {
	return float64(f.Width) / float64(f.Height)
}

// ClipCircle returns the center and radius of the circular clip region.
// The radius derives from Width alone, independent of Height. That rule is
// deliberate: a circular frame authored with unequal sides still clips to
// the circle inscribed in its horizontal extent.
func (f Frame) ClipCircle() (cx, cy, r float64) {
	r = float64(f.Width) / 2
	cx = float64(f.X) + r
	cy = float64(f.Y) + float64(f.Height)/2
	return cx, cy, r
}

// ── TextSlot ──

// TextSlot is the optional name anchor. A nil *TextSlot on a campaign means
// no name is collected or rendered. Styling fields are fixed constants owned
// by the persistence layer; the editor only ever moves X/Y.
type TextSlot struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Color      string `json:"color"`
	FontSize   int    `json:"fontSize"`
	FontFamily string `json:"fontFamily"`
	Align      Align  `json:"align"`
}

// ── Campaign ──

// Campaign is the persisted layout unit: one template image, one frame,
// zero or one text slot.
type Campaign struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	BaseImageURL string    `json:"baseImageUrl"`
	Frame        Frame     `json:"frame"`
	Text         *TextSlot `json:"text,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	Active       bool      `json:"isActive"`
}

// ── Defaults ──

// Default frame and text anchor used when authoring a new campaign.
const (
	DefaultFrameX    = 100
	DefaultFrameY    = 100
	DefaultFrameSize = 200

	DefaultTextX = 100
	DefaultTextY = 400
)

// DefaultFrame returns the initial editor frame: a 200×200 rectangle
// at (100,100).
func DefaultFrame() Frame {
	return Frame{
		X:      DefaultFrameX,
		Y:      DefaultFrameY,
		Width:  DefaultFrameSize,
		Height: DefaultFrameSize,
		Shape:  ShapeRect,
	}
}

// DefaultTextSlot returns a text slot at the given anchor with the fixed
// styling constants applied at persist time.
func DefaultTextSlot(x, y int) *TextSlot {
	return &TextSlot{
		X:          x,
		Y:          y,
		Color:      "#000000",
		FontSize:   60,
		FontFamily: "Arial",
		Align:      AlignCenter,
	}
}
