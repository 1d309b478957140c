// layer.go — The closed set of layer kinds drawn by the compositor.
//
// Layer order is fixed: background, user photo, template overlay, name
// text. Each kind carries its own strict parameter record and at most one
// instance of each kind appears in a composite. The union is sealed by the
// unexported draw method.
package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/asejik/dp-generator/pkg/layout"
)

// Layer is one stratum of the composite. Implementations live in this
// package only.
type Layer interface {
	draw(dc *gg.Context, r *Renderer, scale float64) error
}

// backgroundLayer fills the full canvas, guarding against transparent gaps
// when an imagery layer is missing.
type backgroundLayer struct {
	color color.Color
}

func (l backgroundLayer) draw(dc *gg.Context, _ *Renderer, _ float64) error {
	dc.SetColor(l.color)
	dc.Clear()
	return nil
}

// photoLayer stretch-fits the already-cropped user photo into the frame,
// clipped to the frame's shape. Because the photo was cropped to the
// frame's aspect ratio beforehand, the fit needs no further cropping math.
type photoLayer struct {
	img   image.Image
	frame layout.Frame
}

func (l photoLayer) draw(dc *gg.Context, _ *Renderer, scale float64) error {
	x := float64(l.frame.X) * scale
	y := float64(l.frame.Y) * scale
	w := iround(float64(l.frame.Width) * scale)
	h := iround(float64(l.frame.Height) * scale)

	switch l.frame.Shape {
	case layout.ShapeCircle:
		cx, cy, r := l.frame.ClipCircle()
		dc.DrawCircle(cx*scale, cy*scale, r*scale)
	default:
		dc.DrawRectangle(x, y, float64(w), float64(h))
	}
	dc.Clip()

	fitted := imaging.Resize(l.img, w, h, imaging.Lanczos)
	dc.DrawImage(fitted, iround(x), iround(y))
	dc.ResetClip()
	return nil
}

// templateLayer draws the operator's flyer artwork full-bleed. It sits
// above the photo so non-transparent template pixels mask the seam; the
// artwork carries a transparent hole where the photo shows through.
type templateLayer struct {
	img image.Image
}

func (l templateLayer) draw(dc *gg.Context, _ *Renderer, _ float64) error {
	fitted := imaging.Resize(l.img, dc.Width(), dc.Height(), imaging.Lanczos)
	dc.DrawImage(fitted, 0, 0)
	return nil
}

// textLayer draws the user's name with the campaign's fixed styling.
// Alignment is computed relative to the full canvas width.
type textLayer struct {
	slot layout.TextSlot
	name string
}

func (l textLayer) draw(dc *gg.Context, r *Renderer, scale float64) error {
	face, err := r.fonts.GetFace(l.slot.FontFamily, float64(l.slot.FontSize)*scale)
	if err != nil {
		return err
	}
	defer face.Close()

	canvas := layout.CanvasSize * scale
	textW := float64(font.MeasureString(face, l.name).Ceil())

	x := float64(l.slot.X) * scale
	switch l.slot.Align {
	case layout.AlignCenter:
		x += (canvas - textW) / 2
	case layout.AlignRight:
		x += canvas - textW
	}

	// The anchor is the top of the text; the baseline sits one ascent below.
	baseline := float64(l.slot.Y)*scale + float64(face.Metrics().Ascent.Ceil())

	dc.SetFontFace(face)
	dc.SetColor(ParseColor(l.slot.Color))
	dc.DrawString(l.name, x, baseline)
	return nil
}

func iround(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
