package chore

import (
	"fmt"
	"strings"
	"sync"
)

// Config carries the scheduling rules that vary by household.
type Config struct {
	// OwnDayWeeklyCap is the max own_day chores per Monday-Sunday week.
	OwnDayWeeklyCap int
	// OwnDayTitle is the display title given to own_day chores.
	OwnDayTitle string
}

const (
	defaultOwnDayWeeklyCap = 2
	defaultOwnDayTitle     = "Make your own day"
)

func (c *Config) applyDefaults() {
	if c.OwnDayWeeklyCap <= 0 {
		c.OwnDayWeeklyCap = defaultOwnDayWeeklyCap
	}
	if strings.TrimSpace(c.OwnDayTitle) == "" {
		c.OwnDayTitle = defaultOwnDayTitle
	}
}

// Service is the weekly quota scheduler. All mutations are serialized
// through one mutex per service, so the quota count and the write it
// guards happen in the same critical section.
type Service struct {
	mu   sync.Mutex
	repo Repo
	cfg  Config
}

func NewService(repo Repo, cfg Config) *Service {
	cfg.applyDefaults()
	return &Service{repo: repo, cfg: cfg}
}

func (s *Service) List(filter ListFilter) ([]Chore, error) {
	if filter.From != "" {
		if _, err := ParseDate(filter.From); err != nil {
			return nil, err
		}
	}
	if filter.To != "" {
		if _, err := ParseDate(filter.To); err != nil {
			return nil, err
		}
	}
	return s.repo.List(filter)
}

func (s *Service) Get(id string) (Chore, error) {
	return s.repo.Get(id)
}

func (s *Service) Create(d Draft) (Chore, error) {
	c, err := s.normalizeDraft(d)
	if err != nil {
		return Chore{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Category == CategoryOwnDay {
		if err := s.checkQuotaLocked(c.Date, ""); err != nil {
			return Chore{}, err
		}
	}
	return s.repo.Create(c)
}

func (s *Service) Update(id string, p Patch) (Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.repo.Get(id)
	if err != nil {
		return Chore{}, err
	}

	next := cur
	applyPatch(&next, p)

	if p.Date != nil {
		if _, err := ParseDate(next.Date); err != nil {
			return Chore{}, err
		}
	}
	if !next.Category.Valid() {
		return Chore{}, fmt.Errorf("%w: unknown category %q", ErrValidation, next.Category)
	}
	if err := s.normalizeFields(&next); err != nil {
		return Chore{}, err
	}

	// Any mutation that can change week membership re-runs the quota
	// check against the target window, counting only other chores.
	// A done-only patch never reaches this branch.
	promoted := next.Category == CategoryOwnDay && cur.Category != CategoryOwnDay
	moved := next.Date != cur.Date
	if next.Category == CategoryOwnDay && (promoted || moved) {
		if err := s.checkQuotaLocked(next.Date, id); err != nil {
			return Chore{}, err
		}
	}

	return s.repo.Update(id, Patch{
		Date:     &next.Date,
		Category: &next.Category,
		Title:    &next.Title,
		Assignee: &next.Assignee,
		Done:     &next.Done,
	})
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deletion only ever reduces a week's count; no quota re-check.
	return s.repo.Delete(id)
}

func (s *Service) normalizeDraft(d Draft) (Chore, error) {
	c := Chore{
		Date:     strings.TrimSpace(d.Date),
		Category: d.Category,
		Title:    strings.TrimSpace(d.Title),
		Assignee: strings.TrimSpace(d.Assignee),
	}
	if c.Date == "" {
		return Chore{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := ParseDate(c.Date); err != nil {
		return Chore{}, err
	}
	if c.Category == "" {
		c.Category = CategoryChore
	}
	if !c.Category.Valid() {
		return Chore{}, fmt.Errorf("%w: unknown category %q", ErrValidation, c.Category)
	}
	if err := s.normalizeFields(&c); err != nil {
		return Chore{}, err
	}
	return c, nil
}

// normalizeFields enforces the per-category field convention: own_day
// chores carry the configured title and no assignee, everything else
// needs both fields filled in.
func (s *Service) normalizeFields(c *Chore) error {
	c.Title = strings.TrimSpace(c.Title)
	c.Assignee = strings.TrimSpace(c.Assignee)

	if c.Category == CategoryOwnDay {
		c.Title = s.cfg.OwnDayTitle
		c.Assignee = ""
		return nil
	}
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if c.Assignee == "" {
		return fmt.Errorf("%w: assignee is required", ErrValidation)
	}
	return nil
}

// checkQuotaLocked counts own_day chores in the week containing date,
// excluding excludeID. Callers hold s.mu.
func (s *Service) checkQuotaLocked(date, excludeID string) error {
	w, err := WeekWindow(date)
	if err != nil {
		return err
	}
	existing, err := s.repo.List(ListFilter{From: w.Start, To: w.End})
	if err != nil {
		return err
	}
	count := 0
	for _, c := range existing {
		if c.Category == CategoryOwnDay && c.ID != excludeID {
			count++
		}
	}
	if count >= s.cfg.OwnDayWeeklyCap {
		return fmt.Errorf("%w: %s..%s already has %d", ErrQuotaExceeded, w.Start, w.End, count)
	}
	return nil
}
