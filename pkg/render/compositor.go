// compositor.go - Deterministic multi-layer rendering of a campaign.
// Builds the ordered layer stack (background, clipped user photo, template
// overlay, name text) and rasterizes it at any multiple of the canonical
// 1080×1080 canvas. The same stack backs the on-screen preview and the
// pixel-exact export.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/fogleman/gg"

	"github.com/asejik/dp-generator/pkg/layout"
)

// DefaultExportRatio is the resolution multiple used for exports,
// independent of whatever scale the preview is shown at.
const DefaultExportRatio = 3

// Renderer composes campaigns into images.
type Renderer struct {
	fonts     *FontManager
	templates *ImageCache
}

// NewRenderer creates a renderer. fontDir may be empty (embedded font only).
func NewRenderer(fontDir string) (*Renderer, error) {
	fm, err := NewFontManager(fontDir)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		fonts:     fm,
		templates: NewImageCache(),
	}, nil
}

// Composite is a finalized layer stack, ready to rasterize at any scale.
type Composite struct {
	layers   []Layer
	renderer *Renderer
}

// Compose builds the layer stack for a campaign. photo is the user's
// already-cropped photo and may be nil; name is ignored unless the campaign
// carries a text slot. A template that fails to decode is omitted rather
// than failing the whole render.
func (r *Renderer) Compose(ctx context.Context, c layout.Campaign, photo image.Image, name string) (*Composite, error) {
	if err := c.Frame.Validate(); err != nil {
		return nil, err
	}

	layers := []Layer{
		backgroundLayer{color: color.White},
	}

	if photo != nil {
		layers = append(layers, photoLayer{img: photo, frame: c.Frame})
	}

	if c.BaseImageURL != "" {
		tmpl, err := r.templates.Load(ctx, c.BaseImageURL)
		if err != nil {
			log.Printf("Warning: template %s not rendered: %v", c.BaseImageURL, err)
		} else {
			layers = append(layers, templateLayer{img: tmpl})
		}
	}

	if c.Text != nil && name != "" {
		layers = append(layers, textLayer{slot: *c.Text, name: name})
	}

	return &Composite{layers: layers, renderer: r}, nil
}

// Rasterize renders the stack at ratio × 1080 square pixels. The preview
// uses ratio 1; exports default to DefaultExportRatio. Scaling is uniform
// over the whole output, never applied to individual layer coordinates.
func (comp *Composite) Rasterize(ratio int) (image.Image, error) {
	if ratio < 1 {
		ratio = 1
	}
	size := layout.CanvasSize * ratio
	dc := gg.NewContext(size, size)

	for _, l := range comp.layers {
		if err := l.draw(dc, comp.renderer, float64(ratio)); err != nil {
			return nil, fmt.Errorf("draw layer: %w", err)
		}
	}
	return dc.Image(), nil
}

// Image renders the canonical-resolution preview.
func (comp *Composite) Image() (image.Image, error) {
	return comp.Rasterize(1)
}
