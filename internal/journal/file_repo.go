package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileState struct {
	Comments map[string]Comment `json:"comments"`
}

func newFileState() fileState {
	return fileState{Comments: map[string]Comment{}}
}

// FileRepo persists comments as one JSON document under the data dir,
// mutations serialized by a single writer lock.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, storeErr("create data dir", err)
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "comments.json"),
		s:    newFileState(),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

func (r *FileRepo) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.s = newFileState()
			return nil
		}
		return storeErr("read", err)
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return storeErr("decode", err)
	}
	if loaded.Comments == nil {
		loaded.Comments = map[string]Comment{}
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return storeErr("encode", err)
	}
	if err := os.WriteFile(r.path, b, 0o644); err != nil {
		return storeErr("write", err)
	}
	return nil
}

func (r *FileRepo) Create(c Comment) (Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = newID("comment")
	c.CreatedAt = time.Now()
	r.s.Comments[c.ID] = c
	if err := r.saveLocked(); err != nil {
		delete(r.s.Comments, c.ID)
		return Comment{}, err
	}
	return c, nil
}

func (r *FileRepo) List() ([]Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Comment, 0, len(r.s.Comments))
	for _, c := range r.s.Comments {
		out = append(out, c)
	}
	sortComments(out)
	return out, nil
}
