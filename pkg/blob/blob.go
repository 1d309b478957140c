// Package blob stores template image bytes and hands back a stable public
// URL. User photos and exports never pass through here; they stay
// client-local and ephemeral.
package blob

import (
	"context"
	"io"
)

// Uploader is the blob storage collaborator.
type Uploader interface {
	// Upload stores the bytes and returns a publicly reachable URL.
	Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error)
}
