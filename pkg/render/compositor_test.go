package render

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/asejik/dp-generator/pkg/layout"
)

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("")
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func at(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func isRed(c color.RGBA) bool   { return c.R > 200 && c.G < 60 && c.B < 60 }
func isBlue(c color.RGBA) bool  { return c.B > 200 && c.R < 60 && c.G < 60 }
func isWhite(c color.RGBA) bool { return c.R > 240 && c.G > 240 && c.B > 240 }

func TestRectPhotoFillsFrameExactly(t *testing.T) {
	r := newTestRenderer(t)
	c := layout.Campaign{
		Frame: layout.Frame{X: 100, Y: 100, Width: 200, Height: 200, Shape: layout.ShapeRect},
	}

	comp, err := r.Compose(context.Background(), c, solid(200, 200, red), "")
	if err != nil {
		t.Fatal(err)
	}
	img, err := comp.Image()
	if err != nil {
		t.Fatal(err)
	}

	// Photo covers the frame with zero offset; canvas elsewhere is the
	// white background layer.
	inside := [][2]int{{103, 103}, {297, 297}, {200, 200}}
	outside := [][2]int{{95, 95}, {305, 305}, {50, 500}}
	for _, p := range inside {
		if got := at(img, p[0], p[1]); !isRed(got) {
			t.Errorf("pixel (%d,%d) = %v, want photo red", p[0], p[1], got)
		}
	}
	for _, p := range outside {
		if got := at(img, p[0], p[1]); !isWhite(got) {
			t.Errorf("pixel (%d,%d) = %v, want background white", p[0], p[1], got)
		}
	}
}

func TestCircleClipScenario(t *testing.T) {
	r := newTestRenderer(t)
	c := layout.Campaign{
		Frame: layout.Frame{X: 340, Y: 340, Width: 400, Height: 400, Shape: layout.ShapeCircle},
	}

	comp, err := r.Compose(context.Background(), c, solid(400, 400, red), "")
	if err != nil {
		t.Fatal(err)
	}
	img, err := comp.Image()
	if err != nil {
		t.Fatal(err)
	}

	// Circular inset of diameter 400 centered at (540,540).
	tests := []struct {
		x, y int
		want string
	}{
		{540, 540, "red"},  // center
		{540, 346, "red"},  // just inside top of circle
		{345, 540, "red"},  // just inside left of circle
		{346, 346, "white"}, // bounding-box corner, outside circle
		{734, 734, "white"}, // opposite corner, outside circle
		{540, 334, "white"}, // above bounding box
	}
	for _, tt := range tests {
		got := at(img, tt.x, tt.y)
		ok := (tt.want == "red" && isRed(got)) || (tt.want == "white" && isWhite(got))
		if !ok {
			t.Errorf("pixel (%d,%d) = %v, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestTemplateCoversSeamAboveThePhoto(t *testing.T) {
	// Template: opaque blue with a transparent hole over the frame region.
	tmpl := image.NewNRGBA(image.Rect(0, 0, layout.CanvasSize, layout.CanvasSize))
	for y := 0; y < layout.CanvasSize; y++ {
		for x := 0; x < layout.CanvasSize; x++ {
			if x >= 340 && x < 740 && y >= 340 && y < 740 {
				continue // transparent hole
			}
			tmpl.SetNRGBA(x, y, blue)
		}
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "flyer.png")
	if err := imaging.Save(tmpl, path); err != nil {
		t.Fatal(err)
	}

	r := newTestRenderer(t)
	c := layout.Campaign{
		BaseImageURL: path,
		Frame:        layout.Frame{X: 340, Y: 340, Width: 400, Height: 400, Shape: layout.ShapeRect},
	}

	comp, err := r.Compose(context.Background(), c, solid(400, 400, red), "")
	if err != nil {
		t.Fatal(err)
	}
	img, err := comp.Image()
	if err != nil {
		t.Fatal(err)
	}

	if got := at(img, 540, 540); !isRed(got) {
		t.Errorf("photo must show through the transparent hole, got %v", got)
	}
	if got := at(img, 100, 100); !isBlue(got) {
		t.Errorf("template must cover the canvas outside the hole, got %v", got)
	}
}

func TestMissingTemplateOmitsLayer(t *testing.T) {
	r := newTestRenderer(t)
	c := layout.Campaign{
		BaseImageURL: filepath.Join(t.TempDir(), "gone.png"),
		Frame:        layout.Frame{X: 100, Y: 100, Width: 200, Height: 200, Shape: layout.ShapeRect},
	}

	comp, err := r.Compose(context.Background(), c, nil, "")
	if err != nil {
		t.Fatalf("missing template must not fail the render: %v", err)
	}
	img, err := comp.Image()
	if err != nil {
		t.Fatal(err)
	}
	if got := at(img, 500, 500); !isWhite(got) {
		t.Errorf("canvas = %v, want white background only", got)
	}
}

func TestRasterizeRatioThreeYields3240(t *testing.T) {
	r := newTestRenderer(t)
	c := layout.Campaign{
		Frame: layout.Frame{X: 340, Y: 340, Width: 400, Height: 400, Shape: layout.ShapeCircle},
	}

	comp, err := r.Compose(context.Background(), c, solid(400, 400, red), "")
	if err != nil {
		t.Fatal(err)
	}
	img, err := comp.Rasterize(3)
	if err != nil {
		t.Fatal(err)
	}

	b := img.Bounds()
	if b.Dx() != 3240 || b.Dy() != 3240 {
		t.Fatalf("export raster %dx%d, want 3240x3240", b.Dx(), b.Dy())
	}

	// The circle scales with the canvas, never with a display transform.
	if got := at(img, 1620, 1620); !isRed(got) {
		t.Errorf("scaled center = %v, want red", got)
	}
	if got := at(img, 1038, 1038); !isWhite(got) {
		t.Errorf("scaled bbox corner = %v, want white", got)
	}
}

func TestNilTextSlotRendersNoName(t *testing.T) {
	r := newTestRenderer(t)
	c := layout.Campaign{
		Frame: layout.Frame{X: 100, Y: 100, Width: 200, Height: 200, Shape: layout.ShapeRect},
	}

	comp, err := r.Compose(context.Background(), c, nil, "Ada Lovelace")
	if err != nil {
		t.Fatal(err)
	}
	img, err := comp.Image()
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < layout.CanvasSize; y++ {
		for x := 0; x < layout.CanvasSize; x++ {
			if got := at(img, x, y); !isWhite(got) {
				t.Fatalf("pixel (%d,%d) = %v: no text pixels may appear without a text slot", x, y, got)
			}
		}
	}
}

func TestNameRendersWhenSlotPresent(t *testing.T) {
	r := newTestRenderer(t)
	c := layout.Campaign{
		Frame: layout.Frame{X: 100, Y: 100, Width: 200, Height: 200, Shape: layout.ShapeRect},
		Text:  layout.DefaultTextSlot(0, 500),
	}

	comp, err := r.Compose(context.Background(), c, nil, "Ada")
	if err != nil {
		t.Fatal(err)
	}
	img, err := comp.Image()
	if err != nil {
		t.Fatal(err)
	}

	if !hasDarkPixel(img) {
		t.Error("expected rendered name pixels")
	}

	// Empty names render nothing even with a slot present.
	comp, err = r.Compose(context.Background(), c, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	img, err = comp.Image()
	if err != nil {
		t.Fatal(err)
	}
	if hasDarkPixel(img) {
		t.Error("empty name must render no text")
	}
}

func TestTextAlignmentRelativeToCanvasWidth(t *testing.T) {
	r := newTestRenderer(t)

	minXFor := func(align layout.Align) int {
		slot := layout.DefaultTextSlot(0, 500)
		slot.Align = align
		c := layout.Campaign{
			Frame: layout.Frame{X: 100, Y: 100, Width: 200, Height: 200, Shape: layout.ShapeRect},
			Text:  slot,
		}
		comp, err := r.Compose(context.Background(), c, nil, "Hi")
		if err != nil {
			t.Fatal(err)
		}
		img, err := comp.Image()
		if err != nil {
			t.Fatal(err)
		}
		min := -1
		for y := 0; y < layout.CanvasSize; y++ {
			for x := 0; x < layout.CanvasSize; x++ {
				if c := at(img, x, y); c.R < 100 && c.G < 100 && c.B < 100 {
					if min == -1 || x < min {
						min = x
					}
				}
			}
		}
		if min == -1 {
			t.Fatalf("no text pixels for align %q", align)
		}
		return min
	}

	left := minXFor(layout.AlignLeft)
	center := minXFor(layout.AlignCenter)
	right := minXFor(layout.AlignRight)

	if left > 150 {
		t.Errorf("left-aligned text starts at %d, want near 0", left)
	}
	if !(left < center && center < right) {
		t.Errorf("alignment ordering broken: left=%d center=%d right=%d", left, center, right)
	}
	if right < 800 {
		t.Errorf("right-aligned text starts at %d, want near the right edge", right)
	}
}

func TestInvalidFrameRejectedByCompose(t *testing.T) {
	r := newTestRenderer(t)
	c := layout.Campaign{
		Frame: layout.Frame{X: 0, Y: 0, Width: 2, Height: 2, Shape: layout.ShapeRect},
	}
	if _, err := r.Compose(context.Background(), c, nil, ""); err == nil {
		t.Error("degenerate frame must be rejected")
	}
}

func hasDarkPixel(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := at(img, x, y); c.R < 100 && c.G < 100 && c.B < 100 {
				return true
			}
		}
	}
	return false
}
