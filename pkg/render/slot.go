// slot.go — Generation-guarded image slots.
//
// A layer's content must reflect the most recently requested source. When a
// new image replaces an old one before the old decode finished, the stale
// in-flight result is discarded on commit instead of racing into the frame.
package render

import (
	"image"
	"sync"
)

// Slot holds at most one decoded image plus a generation counter.
type Slot struct {
	mu  sync.Mutex
	gen uint64
	img image.Image
}

// Begin registers a new decode and returns its token. Any decode started
// earlier becomes stale.
func (s *Slot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Complete commits a finished decode. It reports false, without touching
// the slot, when the token is stale.
func (s *Slot) Complete(token uint64, img image.Image) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.gen {
		return false
	}
	s.img = img
	return true
}

// Image returns the last committed image, or nil when nothing has decoded.
func (s *Slot) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Clear drops the held image and invalidates in-flight decodes.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.img = nil
}
