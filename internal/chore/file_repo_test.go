package chore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepo_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	r, err := NewFileRepo(dir)
	require.NoError(t, err)

	created, err := r.Create(Chore{Date: "2026-01-07", Category: CategoryChore, Title: "Dishes", Assignee: "Sam"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	reopened, err := NewFileRepo(dir)
	require.NoError(t, err)

	got, err := reopened.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dishes", got.Title)
	assert.Equal(t, "2026-01-07", got.Date)
}

func TestFileRepo_PatchOnlyTouchesSetFields(t *testing.T) {
	r, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	created, err := r.Create(Chore{Date: "2026-01-07", Category: CategoryChore, Title: "Dishes", Assignee: "Sam"})
	require.NoError(t, err)

	done := true
	got, err := r.Update(created.ID, Patch{Done: &done})
	require.NoError(t, err)

	assert.True(t, got.Done)
	assert.Equal(t, "Dishes", got.Title)
	assert.Equal(t, "Sam", got.Assignee)
	assert.Equal(t, created.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestFileRepo_DeleteThenGet(t *testing.T) {
	r, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	created, err := r.Create(Chore{Date: "2026-01-07", Category: CategoryChore, Title: "Dishes", Assignee: "Sam"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(created.ID))

	_, err = r.Get(created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(r.Delete(created.ID), ErrNotFound))
}

func TestFileRepo_ListOrdering(t *testing.T) {
	r, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	_, err = r.Create(Chore{Date: "2026-01-08", Category: CategoryChore, Title: "B", Assignee: "x"})
	require.NoError(t, err)
	_, err = r.Create(Chore{Date: "2026-01-05", Category: CategoryOwnDay, Title: "Make your own day"})
	require.NoError(t, err)
	_, err = r.Create(Chore{Date: "2026-01-05", Category: CategoryChore, Title: "A", Assignee: "x"})
	require.NoError(t, err)

	list, err := r.List(ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Date first, then regular chores before own_day within a date.
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, CategoryOwnDay, list[1].Category)
	assert.Equal(t, "B", list[2].Title)
}
