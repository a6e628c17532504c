package journal

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"
)

type Repo interface {
	Create(c Comment) (Comment, error)
	List() ([]Comment, error)
}

func newID(prefix string) string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return prefix + "_" + hex.EncodeToString(b[:])
}

// sortComments orders newest first.
func sortComments(out []Comment) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
}

type MemoryRepo struct {
	mu       sync.RWMutex
	comments map[string]Comment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{comments: map[string]Comment{}}
}

func (r *MemoryRepo) Create(c Comment) (Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = newID("comment")
	c.CreatedAt = time.Now()
	r.comments[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) List() ([]Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Comment, 0, len(r.comments))
	for _, c := range r.comments {
		out = append(out, c)
	}
	sortComments(out)
	return out, nil
}
