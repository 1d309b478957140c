// share.go — Handoff of an exported composite to a platform share surface.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asejik/dp-generator/pkg/layout"
)

// ErrShareUnsupported means the platform share capability is absent or
// refused the payload. Callers fall back to direct download.
var ErrShareUnsupported = errors.New("render: sharing unsupported on this platform")

// ErrShareTimeout means the share surface did not respond within the
// bounded wait. Soft failure; the user may retry.
var ErrShareTimeout = errors.New("render: share timed out")

// DefaultShareTimeout bounds how long a share invocation may hang before
// it is abandoned.
const DefaultShareTimeout = 5 * time.Second

// Payload is the raster plus the caption material handed to the share
// surface.
type Payload struct {
	Title    string
	Caption  string
	Filename string
	PNG      []byte
}

// NewPayload derives a share payload from a campaign and its exported PNG.
func NewPayload(c layout.Campaign, pngBytes []byte, now time.Time) Payload {
	return Payload{
		Title:    c.Title,
		Caption:  fmt.Sprintf("My %s DP", c.Title),
		Filename: ExportFilename(now),
		PNG:      pngBytes,
	}
}

// Sharer is the platform share surface. Implementations may hang; Share
// bounds the wait for them.
type Sharer interface {
	// Supported reports whether the platform can share this kind of payload.
	Supported() bool
	// Share presents the payload. It should honor ctx cancellation but is
	// not trusted to.
	Share(ctx context.Context, p Payload) error
}

// Share hands the payload to the platform surface. An absent or unwilling
// surface fails immediately with ErrShareUnsupported; no pending state is
// ever entered. A surface that hangs past timeout (DefaultShareTimeout when
// zero) fails with ErrShareTimeout.
func Share(ctx context.Context, s Sharer, p Payload, timeout time.Duration) error {
	if s == nil || !s.Supported() {
		return ErrShareUnsupported
	}
	if timeout <= 0 {
		timeout = DefaultShareTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Share(ctx, p) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrShareUnsupported, err)
		}
		return nil
	case <-ctx.Done():
		return ErrShareTimeout
	}
}
