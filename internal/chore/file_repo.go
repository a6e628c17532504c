package chore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileState struct {
	Chores map[string]Chore `json:"chores"`
}

func newFileState() fileState {
	return fileState{Chores: map[string]Chore{}}
}

// FileRepo is a persistent chore repository backed by one JSON document.
// All mutations run under a single writer lock and rewrite the document,
// so every read-modify-write cycle is one critical section. The document
// is loaded and its collections initialized exactly once, at construction.
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
		path: filepath.Join(dataDir, "chores.json"),
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
	if loaded.Chores == nil {
		loaded.Chores = map[string]Chore{}
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

func (r *FileRepo) Create(c Chore) (Chore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = newID("chore")
	c.CreatedAt = time.Now()
	r.s.Chores[c.ID] = c
	if err := r.saveLocked(); err != nil {
		delete(r.s.Chores, c.ID)
		return Chore{}, err
	}
	return c, nil
}

func (r *FileRepo) Get(id string) (Chore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.s.Chores[id]
	if !ok {
		return Chore{}, ErrNotFound
	}
	return c, nil
}

func (r *FileRepo) Update(id string, p Patch) (Chore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.s.Chores[id]
	if !ok {
		return Chore{}, ErrNotFound
	}
	c := prev
	applyPatch(&c, p)
	r.s.Chores[id] = c
	if err := r.saveLocked(); err != nil {
		r.s.Chores[id] = prev
		return Chore{}, err
	}
	return c, nil
}

func (r *FileRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.s.Chores[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.s.Chores, id)
	if err := r.saveLocked(); err != nil {
		r.s.Chores[id] = prev
		return err
	}
	return nil
}

func (r *FileRepo) List(filter ListFilter) ([]Chore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Chore, 0, len(r.s.Chores))
	for _, c := range r.s.Chores {
		if matchesFilter(c, filter) {
			out = append(out, c)
		}
	}
	sortChores(out)
	return out, nil
}
