package chore

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(cap int) *Service {
	return NewService(NewMemoryRepo(), Config{OwnDayWeeklyCap: cap})
}

func mustCreate(t *testing.T, s *Service, d Draft) Chore {
	t.Helper()
	c, err := s.Create(d)
	require.NoError(t, err)
	return c
}

func ownDay(date string) Draft {
	return Draft{Date: date, Category: CategoryOwnDay}
}

func strPtr(s string) *string     { return &s }
func catPtr(c Category) *Category { return &c }
func boolPtr(b bool) *bool        { return &b }

func TestCreate_RegularChore(t *testing.T) {
	s := newTestService(2)

	c := mustCreate(t, s, Draft{Date: "2026-01-07", Title: "Dishes", Assignee: "Sam"})

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, CategoryChore, c.Category)
	assert.Equal(t, "Dishes", c.Title)
	assert.Equal(t, "Sam", c.Assignee)
	assert.False(t, c.Done)
}

func TestCreate_OwnDayGetsFixedFields(t *testing.T) {
	s := newTestService(2)

	c := mustCreate(t, s, Draft{Date: "2026-01-07", Category: CategoryOwnDay, Title: "ignored", Assignee: "ignored"})

	assert.Equal(t, "Make your own day", c.Title)
	assert.Empty(t, c.Assignee)
}

func TestCreate_ValidationErrors(t *testing.T) {
	s := newTestService(2)

	cases := []Draft{
		{Date: "", Title: "x", Assignee: "y"},
		{Date: "2026-02-30", Title: "x", Assignee: "y"},
		{Date: "2026-01-07", Category: "weird", Title: "x", Assignee: "y"},
		{Date: "2026-01-07", Title: "", Assignee: "y"},
		{Date: "2026-01-07", Title: "x", Assignee: ""},
	}
	for _, d := range cases {
		_, err := s.Create(d)
		assert.True(t, errors.Is(err, ErrValidation), "draft %+v: got %v", d, err)
	}
}

func TestCreate_OwnDayUpToCap(t *testing.T) {
	s := newTestService(2)

	mustCreate(t, s, ownDay("2026-01-05"))
	mustCreate(t, s, ownDay("2026-01-11"))

	_, err := s.Create(ownDay("2026-01-07"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
}

func TestCreate_QuotaRejectionLeavesStoreUnchanged(t *testing.T) {
	s := newTestService(1)

	mustCreate(t, s, ownDay("2026-01-05"))
	_, err := s.Create(ownDay("2026-01-06"))
	require.True(t, errors.Is(err, ErrQuotaExceeded))

	list, err := s.List(ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_QuotaIsPerWeek(t *testing.T) {
	s := newTestService(1)

	mustCreate(t, s, ownDay("2026-01-05"))
	// Next Monday is a fresh window.
	mustCreate(t, s, ownDay("2026-01-12"))

	_, err := s.Create(ownDay("2026-01-13"))
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
}

func TestCreate_OtherCategoriesNeverCount(t *testing.T) {
	s := newTestService(1)

	mustCreate(t, s, Draft{Date: "2026-01-05", Title: "Laundry", Assignee: "Kim"})
	mustCreate(t, s, Draft{Date: "2026-01-06", Category: CategorySpecial, Title: "Birthday", Assignee: "Kim"})

	_, err := s.Create(ownDay("2026-01-07"))
	assert.NoError(t, err)
}

func TestUpdate_DoneOnlySkipsQuota(t *testing.T) {
	s := newTestService(1)
	c := mustCreate(t, s, ownDay("2026-01-05"))

	got, err := s.Update(c.ID, Patch{Done: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.Done)
}

func TestUpdate_MoveIntoFullWeekRejected(t *testing.T) {
	s := newTestService(1)
	mustCreate(t, s, ownDay("2026-01-05"))
	c := mustCreate(t, s, ownDay("2026-01-12"))

	_, err := s.Update(c.ID, Patch{Date: strPtr("2026-01-06")})
	require.True(t, errors.Is(err, ErrQuotaExceeded))

	// Rejected move leaves the chore where it was.
	cur, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-12", cur.Date)
}

func TestUpdate_MoveWithinSameWeekNeverSelfBlocks(t *testing.T) {
	s := newTestService(1)
	c := mustCreate(t, s, ownDay("2026-01-05"))

	got, err := s.Update(c.ID, Patch{Date: strPtr("2026-01-09")})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-09", got.Date)
}

func TestUpdate_PromotionIntoFullWeekRejected(t *testing.T) {
	s := newTestService(1)
	mustCreate(t, s, ownDay("2026-01-05"))
	c := mustCreate(t, s, Draft{Date: "2026-01-06", Title: "Vacuum", Assignee: "Ada"})

	_, err := s.Update(c.ID, Patch{Category: catPtr(CategoryOwnDay)})
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
}

func TestUpdate_PromotionIntoOpenWeekNormalizes(t *testing.T) {
	s := newTestService(2)
	c := mustCreate(t, s, Draft{Date: "2026-01-06", Title: "Vacuum", Assignee: "Ada"})

	got, err := s.Update(c.ID, Patch{Category: catPtr(CategoryOwnDay)})
	require.NoError(t, err)
	assert.Equal(t, "Make your own day", got.Title)
	assert.Empty(t, got.Assignee)
}

func TestUpdate_DemotionRequiresFields(t *testing.T) {
	s := newTestService(2)
	c := mustCreate(t, s, ownDay("2026-01-05"))

	_, err := s.Update(c.ID, Patch{Category: catPtr(CategoryChore)})
	assert.True(t, errors.Is(err, ErrValidation))

	got, err := s.Update(c.ID, Patch{
		Category: catPtr(CategoryChore),
		Title:    strPtr("Mop"),
		Assignee: strPtr("Ada"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mop", got.Title)
}

func TestUpdate_UnknownID(t *testing.T) {
	s := newTestService(2)

	_, err := s.Update("chore_nope", Patch{Done: boolPtr(true)})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete_FreesQuotaSlot(t *testing.T) {
	s := newTestService(1)
	c := mustCreate(t, s, ownDay("2026-01-05"))

	_, err := s.Create(ownDay("2026-01-06"))
	require.True(t, errors.Is(err, ErrQuotaExceeded))

	require.NoError(t, s.Delete(c.ID))

	_, err = s.Create(ownDay("2026-01-06"))
	assert.NoError(t, err)
}

func TestList_DateRangeFilter(t *testing.T) {
	s := newTestService(2)
	mustCreate(t, s, Draft{Date: "2026-01-05", Title: "A", Assignee: "x"})
	mustCreate(t, s, Draft{Date: "2026-01-08", Title: "B", Assignee: "x"})
	mustCreate(t, s, Draft{Date: "2026-01-12", Title: "C", Assignee: "x"})

	list, err := s.List(ListFilter{From: "2026-01-05", To: "2026-01-11"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "B", list[1].Title)
}

func TestList_BadRange(t *testing.T) {
	s := newTestService(2)

	_, err := s.List(ListFilter{From: "bogus"})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCreate_ConcurrentNeverExceedsCap(t *testing.T) {
	const cap = 2
	s := newTestService(cap)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(ownDay("2026-01-07"))
		}()
	}
	wg.Wait()

	list, err := s.List(ListFilter{From: "2026-01-05", To: "2026-01-11"})
	require.NoError(t, err)

	got := 0
	for _, c := range list {
		if c.Category == CategoryOwnDay {
			got++
		}
	}
	assert.Equal(t, cap, got)
}
