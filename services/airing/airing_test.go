package airing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture: a 12-episode show airing Mondays at 20:00 UTC, episode 1 on
// 2026-01-05.
var (
	fixtureFirst = time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC).Unix()
	fixtureTotal = 12
	fixtureLast  = time.Date(2026, 3, 23, 20, 0, 0, 0, time.UTC).Unix()
)

func TestLastEpisodeAt(t *testing.T) {
	assert.Equal(t, fixtureLast, LastEpisodeAt(fixtureFirst, fixtureTotal))
	assert.Equal(t, fixtureFirst, LastEpisodeAt(fixtureFirst, 1))
}

func TestStatusAt(t *testing.T) {
	cases := []struct {
		name   string
		now    int64
		status Status
	}{
		{"before first", fixtureFirst - 1, StatusToBeUpdated},
		{"exactly first", fixtureFirst, StatusSerializing},
		{"mid run", fixtureFirst + 5*SecondsPerWeek, StatusSerializing},
		{"exactly last", fixtureLast, StatusSerializing},
		{"after last", fixtureLast + 1, StatusCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StatusAt(time.Unix(tc.now, 0), fixtureFirst, fixtureLast)
			assert.Equal(t, tc.status, got)
		})
	}
}

func TestCurrentEpisodeAt(t *testing.T) {
	cases := []struct {
		name    string
		now     int64
		episode int
	}{
		{"before first", fixtureFirst - 1, 0},
		{"exactly first", fixtureFirst, 1},
		{"just before second", fixtureFirst + SecondsPerWeek - 1, 1},
		{"exactly second", fixtureFirst + SecondsPerWeek, 2},
		{"exactly last", fixtureLast, 12},
		{"clamped after last", fixtureLast + 3*SecondsPerWeek, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentEpisodeAt(time.Unix(tc.now, 0), fixtureFirst, fixtureTotal)
			assert.Equal(t, tc.episode, got)
		})
	}
}

func TestCurrentEpisodeAtUnknownTotalKeepsGrowing(t *testing.T) {
	now := time.Unix(fixtureFirst+20*SecondsPerWeek, 0)
	assert.Equal(t, 21, CurrentEpisodeAt(now, fixtureFirst, 0))
}

func TestFirstEpisodeAtRoundTrip(t *testing.T) {
	// Wednesday afternoon
	now := time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC)
	for wd := Monday; wd <= Sunday; wd++ {
		for _, episode := range []int{1, 2, 5, 13} {
			first, err := FirstEpisodeAt(now, episode, wd, "20:00", time.UTC)
			require.NoError(t, err)
			slot := time.Unix(first, 0).In(time.UTC)
			assert.Equal(t, wd, ISOWeekday(slot))
			assert.Equal(t, "20:00", slot.Format(HHmmLayout))
			assert.Equal(t, episode, CurrentEpisodeAt(now, first, 100))
		}
	}
}

func TestFirstEpisodeAtSameDay(t *testing.T) {
	// Monday noon
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)

	// Today's slot still ahead, the latest occurrence is last Monday.
	first, err := FirstEpisodeAt(now, 1, Monday, "20:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 26, 20, 0, 0, 0, time.UTC).Unix(), first)

	// Slot exactly at now counts as already aired.
	first, err = FirstEpisodeAt(now, 1, Monday, "12:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), first)
}

func TestFirstEpisodeAtRejectsBadInput(t *testing.T) {
	now := time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC)
	_, err := FirstEpisodeAt(now, 0, Monday, "20:00", time.UTC)
	assert.Error(t, err)
	_, err = FirstEpisodeAt(now, 1, Weekday(8), "20:00", time.UTC)
	assert.Error(t, err)
	_, err = FirstEpisodeAt(now, 1, Monday, "25:00", time.UTC)
	assert.Error(t, err)
}

func TestFirstEpisodeAtRoundTripAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// Spring forward happened on 2026-03-08, episode 1 lands before it.
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, loc)
	first, err := FirstEpisodeAt(now, 3, Sunday, "20:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 3, CurrentEpisodeAt(now, first, 24))
}

func TestFirstEpisodeAtRoundTripAcrossFallBack(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// Fall back happened earlier that morning, 2026-11-01 02:00. One minute
	// before the slot the latest occurrence is last Sunday, across the
	// shift, 168h59m away in epoch time.
	now := time.Date(2026, 11, 1, 19, 59, 0, 0, loc)
	for _, episode := range []int{1, 2, 7} {
		first, err := FirstEpisodeAt(now, episode, Sunday, "20:00", loc)
		require.NoError(t, err)
		assert.Equal(t, episode, CurrentEpisodeAt(now, first, 52))
	}

	// One minute after the slot the occurrence is today, no shift between
	// it and now.
	now = time.Date(2026, 11, 1, 20, 1, 0, 0, loc)
	first, err := FirstEpisodeAt(now, 4, Sunday, "20:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 4, CurrentEpisodeAt(now, first, 52))
	slot := time.Unix(first, 0).In(loc)
	assert.Equal(t, Sunday, ISOWeekday(slot))
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, Monday, ISOWeekday(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, ISOWeekday(time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateTimePassedToday(t *testing.T) {
	before := time.Date(2026, 1, 12, 19, 59, 0, 0, time.UTC)
	exact := time.Date(2026, 1, 12, 20, 0, 0, 0, time.UTC)
	after := time.Date(2026, 1, 12, 21, 0, 0, 0, time.UTC)
	assert.False(t, UpdateTimePassedToday(before, fixtureFirst, time.UTC))
	assert.True(t, UpdateTimePassedToday(exact, fixtureFirst, time.UTC))
	assert.True(t, UpdateTimePassedToday(after, fixtureFirst, time.UTC))
}

func TestWeekStartAt(t *testing.T) {
	monday := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC).Unix()
	wednesday := time.Date(2026, 2, 4, 15, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 2, 8, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStartAt(wednesday, time.UTC))
	assert.Equal(t, monday, WeekStartAt(sunday, time.UTC))
	assert.Equal(t, monday, WeekStartAt(time.Unix(monday, 0).In(time.UTC), time.UTC))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusSerializing.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusToBeUpdated.Valid())
	assert.False(t, Status("airing").Valid())
}
