// Package crop turns an arbitrary user photo into a raster whose pixel
// aspect ratio matches a target frame exactly.
//
// A Session models the interactive selection: a movable crop window of
// locked aspect ratio panned and zoomed over the source image. Committing
// produces the cropped raster; the compositor can then stretch-fit it into
// the frame with no further cropping math. A circular target only changes
// the selection mask shown to the user: the output is always rectangular,
// and shape clipping happens at render time.
package crop

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"

	"github.com/asejik/dp-generator/pkg/layout"
)

// ErrDecode marks an image source that could not be rasterized. The caller
// lets the user retry with a different file.
var ErrDecode = errors.New("crop: undecodable image")

// ErrCanceled marks a session that was canceled before commit.
var ErrCanceled = errors.New("crop: session canceled")

// Zoom bounds relative to the window's base fit-to-image scale.
const (
	MinZoom = 1.0
	MaxZoom = 3.0
)

// Decode reads and decodes a user-supplied image, honoring EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Session is one interactive crop over a single source image.
type Session struct {
	src    image.Image
	aspect float64 // target width/height
	shape  layout.Shape

	// Base window: the largest rect of the target aspect that fits the
	// source. Zoom shrinks the window relative to this.
	baseW, baseH float64

	zoom     float64
	cx, cy   float64 // window center in source pixels
	canceled bool
}

// NewSession starts a crop session. aspect is the destination frame's
// width/height ratio; shape only selects the visual mask.
func NewSession(src image.Image, aspect float64, shape layout.Shape) (*Session, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrDecode)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("crop: aspect ratio must be positive, got %v", aspect)
	}

	b := src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())

	s := &Session{
		src:    src,
		aspect: aspect,
		shape:  shape,
		zoom:   MinZoom,
		cx:     sw / 2,
		cy:     sh / 2,
	}

	// Fit the locked-aspect window inside the source.
	if sw/sh > aspect {
		s.baseH = sh
		s.baseW = sh * aspect
	} else {
		s.baseW = sw
		s.baseH = sw / aspect
	}
	return s, nil
}

// Shape returns the mask hint for the selection UI.
func (s *Session) Shape() layout.Shape { return s.shape }

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 { return s.zoom }

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom], and keeps
// the window inside the source.
func (s *Session) SetZoom(z float64) {
	s.zoom = math.Min(math.Max(z, MinZoom), MaxZoom)
	s.clampCenter()
}

// Pan moves the window center by a pixel delta, clamped to source bounds.
func (s *Session) Pan(dx, dy float64) {
	s.cx += dx
	s.cy += dy
	s.clampCenter()
}

// SetCenter places the window center at the given source pixel position,
// clamped so the window stays inside the source.
func (s *Session) SetCenter(cx, cy float64) {
	s.cx, s.cy = cx, cy
	s.clampCenter()
}

// Window returns the current crop window in source pixel coordinates.
func (s *Session) Window() image.Rectangle {
	w := s.baseW / s.zoom
	h := s.baseH / s.zoom
	b := s.src.Bounds()
	x0 := float64(b.Min.X) + s.cx - w/2
	y0 := float64(b.Min.Y) + s.cy - h/2
	return image.Rect(round(x0), round(y0), round(x0+w), round(y0+h))
}

// Commit crops the source to the current window and returns the new raster.
// Its pixel aspect ratio equals the target aspect to within rounding.
func (s *Session) Commit() (image.Image, error) {
	if s.canceled {
		return nil, ErrCanceled
	}
	return imaging.Crop(s.src, s.Window()), nil
}

// Cancel discards all in-progress selection state. The caller keeps
// whatever photo it had before the session started.
func (s *Session) Cancel() {
	s.canceled = true
}

// Canceled reports whether the session was canceled.
func (s *Session) Canceled() bool { return s.canceled }

func (s *Session) clampCenter() {
	w := s.baseW / s.zoom
	h := s.baseH / s.zoom
	b := s.src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	s.cx = math.Min(math.Max(s.cx, w/2), sw-w/2)
	s.cy = math.Min(math.Max(s.cy, h/2), sh-h/2)
}

func round(v float64) int {
	return int(math.Round(v))
}
