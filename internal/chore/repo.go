package chore

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"
)

type Repo interface {
	Create(c Chore) (Chore, error)
	Get(id string) (Chore, error)
	Update(id string, p Patch) (Chore, error)
	Delete(id string) error
	List(filter ListFilter) ([]Chore, error)
}

func newID(prefix string) string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return prefix + "_" + hex.EncodeToString(b[:])
}

func matchesFilter(c Chore, f ListFilter) bool {
	if f.From != "" && c.Date < f.From {
		return false
	}
	if f.To != "" && c.Date > f.To {
		return false
	}
	return true
}

func sortChores(out []Chore) {
	sort.Slice(out, func(i, j int) bool { return lessChore(out[i], out[j]) })
}

type MemoryRepo struct {
	mu     sync.RWMutex
	chores map[string]Chore
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{chores: map[string]Chore{}}
}

func (r *MemoryRepo) Create(c Chore) (Chore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = newID("chore")
	c.CreatedAt = time.Now()
	r.chores[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) Get(id string) (Chore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chores[id]
	if !ok {
		return Chore{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) Update(id string, p Patch) (Chore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chores[id]
	if !ok {
		return Chore{}, ErrNotFound
	}
	applyPatch(&c, p)
	r.chores[id] = c
	return c, nil
}

func (r *MemoryRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chores[id]; !ok {
		return ErrNotFound
	}
	delete(r.chores, id)
	return nil
}

func (r *MemoryRepo) List(filter ListFilter) ([]Chore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Chore, 0, len(r.chores))
	for _, c := range r.chores {
		if matchesFilter(c, filter) {
			out = append(out, c)
		}
	}
	sortChores(out)
	return out, nil
}
