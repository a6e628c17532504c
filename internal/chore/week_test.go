package chore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekWindow_MondayStart(t *testing.T) {
	// 2026-01-07 is a Wednesday.
	w, err := WeekWindow("2026-01-07")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-05", w.Start)
	assert.Equal(t, "2026-01-11", w.End)
}

func TestWeekWindow_ContainsOwnDate(t *testing.T) {
	for _, date := range []string{"2026-01-05", "2026-01-07", "2026-01-11", "2024-02-29"} {
		w, err := WeekWindow(date)
		require.NoError(t, err)
		assert.True(t, w.Contains(date), "window %v should contain %s", w, date)
	}
}

func TestWeekWindow_MondayAndSundayEdges(t *testing.T) {
	// Monday maps to a window starting on itself.
	w, err := WeekWindow("2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", w.Start)
	assert.Equal(t, "2026-01-11", w.End)

	// Sunday belongs to the week that started six days earlier.
	w, err = WeekWindow("2026-01-11")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", w.Start)
	assert.Equal(t, "2026-01-11", w.End)

	// The next Monday opens a fresh window.
	w, err = WeekWindow("2026-01-12")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-12", w.Start)
}

func TestWeekWindow_SameWindowForWholeWeek(t *testing.T) {
	want, err := WeekWindow("2026-01-05")
	require.NoError(t, err)

	days := []string{
		"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08",
		"2026-01-09", "2026-01-10", "2026-01-11",
	}
	for _, d := range days {
		got, err := WeekWindow(d)
		require.NoError(t, err)
		assert.Equal(t, want, got, "date %s", d)
	}
}

func TestWeekWindow_AcrossMonthAndYearBoundary(t *testing.T) {
	// 2025-12-31 is a Wednesday; its window spans the year boundary.
	w, err := WeekWindow("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-29", w.Start)
	assert.Equal(t, "2026-01-04", w.End)
}

func TestWeekWindow_BadDate(t *testing.T) {
	for _, bad := range []string{"", "2026-13-01", "2026-02-30", "not-a-date", "07/01/2026"} {
		_, err := WeekWindow(bad)
		require.Error(t, err, "date %q", bad)
		assert.True(t, errors.Is(err, ErrValidation))
	}
}

func TestParseDate_TrimsWhitespace(t *testing.T) {
	_, err := ParseDate(" 2026-01-07 ")
	assert.NoError(t, err)
}
