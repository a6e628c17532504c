package chore

import (
	"errors"
	"time"
)

var (
	ErrValidation       = errors.New("invalid chore")
	ErrQuotaExceeded    = errors.New("own-day quota exceeded for week")
	ErrNotFound         = errors.New("chore not found")
	ErrStoreUnavailable = errors.New("chore store unavailable")
)

type Category string

const (
	// CategoryChore is a regular assigned household chore.
	CategoryChore Category = "chore"
	// CategoryOwnDay is a "make your own day": no assignee, capped per week.
	CategoryOwnDay Category = "own_day"
	// CategorySpecial is an uncapped extra entry (events, one-offs).
	CategorySpecial Category = "special"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryChore, CategoryOwnDay, CategorySpecial:
		return true
	}
	return false
}

type Chore struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Assignee  string    `json:"assignee,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is the caller-supplied input for Create.
type Draft struct {
	Date     string   `json:"date"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Assignee string   `json:"assignee"`
}

// Patch represents a partial update.
// nil pointer => "no change"
type Patch struct {
	Date     *string   `json:"date,omitempty"`
	Category *Category `json:"category,omitempty"`
	Title    *string   `json:"title,omitempty"`
	Assignee *string   `json:"assignee,omitempty"`
	Done     *bool     `json:"done,omitempty"`
}

type ListFilter struct {
	// From/To restrict to an inclusive YYYY-MM-DD range; empty = unbounded.
	From string
	To   string
}

func applyPatch(c *Chore, p Patch) {
	if p.Date != nil {
		c.Date = *p.Date
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Assignee != nil {
		c.Assignee = *p.Assignee
	}
	if p.Done != nil {
		c.Done = *p.Done
	}
}

func categoryRank(c Category) int {
	switch c {
	case CategoryChore:
		return 0
	case CategoryOwnDay:
		return 1
	default:
		return 2
	}
}

// lessChore is the list ordering contract: date, then category,
// then creation order. Callers must not assume anything finer.
func lessChore(a, b Chore) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if ra, rb := categoryRank(a.Category), categoryRank(b.Category); ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
