// loader.go — Template image fetching and caching.
package render

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache resolves image URLs (http(s) or local paths) to decoded
// images. Each source is backed by a Slot so a reload started while an
// earlier decode is still in flight can never surface stale pixels.
type ImageCache struct {
	mu    sync.Mutex
	slots map[string]*Slot
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{slots: make(map[string]*Slot)}
}

func (c *ImageCache) slot(src string) *Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[src]
	if !ok {
		s = &Slot{}
		c.slots[src] = s
	}
	return s
}

// Load returns the decoded image for src, fetching and decoding it on
// first use.
func (c *ImageCache) Load(ctx context.Context, src string) (image.Image, error) {
	s := c.slot(src)
	if img := s.Image(); img != nil {
		return img, nil
	}

	token := s.Begin()
	img, err := fetchImage(ctx, src)
	if err != nil {
		return nil, err
	}
	s.Complete(token, img)
	return img, nil
}

// Invalidate drops the cached image for src (template republished).
func (c *ImageCache) Invalidate(src string) {
	c.slot(src).Clear()
}

func fetchImage(ctx context.Context, src string) (image.Image, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
		}
		img, err := imaging.Decode(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", src, err)
		}
		return img, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return img, nil
}
