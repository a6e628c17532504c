// Package photo is the boundary to the external image-hosting service.
// A comment's photo is persisted only as the URL an Uploader returns,
// never as bytes in the store.
package photo

import "context"

// Uploader pushes one image to the hosting service and returns the
// public URL for it. A single synchronous call; no retries here.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
