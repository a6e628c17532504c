package photo

import (
	"context"
	"sync"
)

// MemoryUploader keeps uploads in memory. Test double for the hosting
// service; set Err to simulate a failed upload.
type MemoryUploader struct {
	mu      sync.Mutex
	Err     error
	BaseURL string
	uploads map[string][]byte
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{
		BaseURL: "https://photos.test",
		uploads: map[string][]byte{},
	}
}

func (u *MemoryUploader) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.Err != nil {
		return "", u.Err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	u.uploads[key] = cp
	return u.BaseURL + "/" + key, nil
}

// Count reports how many uploads succeeded.
func (u *MemoryUploader) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.uploads)
}
