package airing

import (
	"time"

	"github.com/pkg/errors"
)

// Status is the lifecycle of a show relative to the current time.
type Status string

const (
	StatusSerializing Status = "serializing"
	StatusCompleted   Status = "completed"
	StatusToBeUpdated Status = "toBeUpdated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSerializing, StatusCompleted, StatusToBeUpdated:
		return true
	}
	return false
}

// Weekday is an ISO weekday, Monday=1 .. Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// ISOWeekday converts time.Weekday (Sunday=0) to ISO numbering.
func ISOWeekday(t time.Time) Weekday {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return Weekday(wd)
}

// SecondsPerWeek anchors the one-episode-per-week cadence. All week steps
// are done on epoch seconds so derivations stay exact across DST shifts.
const SecondsPerWeek int64 = 7 * 24 * 60 * 60

// HHmmLayout is the clock-time format shows announce their slot in.
const HHmmLayout = "15:04"

// DateTimeLayout is the local date-time format accepted from forms.
const DateTimeLayout = "2006-01-02 15:04"

// LastEpisodeAt returns the airing instant of the final episode. total <= 0
// is the unknown-length sentinel, callers must branch to a placeholder
// before calling.
func LastEpisodeAt(first int64, total int) int64 {
	return first + int64(total-1)*SecondsPerWeek
}

// StatusAt classifies a show against now. Both boundaries fall to the open
// side: at the exact first or last airing instant the show is serializing.
func StatusAt(now time.Time, first, last int64) Status {
	ts := now.Unix()
	switch {
	case ts < first:
		return StatusToBeUpdated
	case ts > last:
		return StatusCompleted
	default:
		return StatusSerializing
	}
}

// CurrentEpisodeAt returns the episode that should currently be visible,
// 0 before the show starts and clamped to total once it has finished.
// With total <= 0 the count keeps growing weekly.
func CurrentEpisodeAt(now time.Time, first int64, total int) int {
	elapsed := now.Unix() - first
	if elapsed < 0 {
		return 0
	}
	episode := int(elapsed/SecondsPerWeek) + 1
	if total > 0 && episode > total {
		episode = total
	}
	return episode
}

// FirstEpisodeAt reconstructs the instant of episode 1 from "currently on
// episode N, airs every <weekday> at <HH:mm>". It walks back from the most
// recent occurrence of the weekday and clock time at-or-before now, then
// steps whole weeks so CurrentEpisodeAt on the result yields episode again
// at the same now.
func FirstEpisodeAt(now time.Time, episode int, weekday Weekday, hhmm string, loc *time.Location) (int64, error) {
	if episode < 1 {
		return 0, errors.New("episode must be at least 1")
	}
	if !weekday.Valid() {
		return 0, errors.New("invalid weekday")
	}
	clock, err := time.ParseInLocation(HHmmLayout, hhmm, loc)
	if err != nil {
		return 0, errors.Wrap(err, "invalid HH:mm time")
	}

	local := now.In(loc)
	occurrence := time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	for occurrence.After(local) || ISOWeekday(occurrence) != weekday {
		occurrence = occurrence.AddDate(0, 0, -1)
	}
	first := occurrence.Unix() - int64(episode-1)*SecondsPerWeek
	// The walk-back runs in calendar space, so a DST shift between the
	// occurrence and now can put it more than one epoch week away. Correct
	// against the forward derivation so the round trip stays exact.
	if diff := CurrentEpisodeAt(now, first, 0) - episode; diff != 0 {
		first += int64(diff) * SecondsPerWeek
	}
	return first, nil
}

// UpdateTimePassedToday reports whether today's occurrence of the show's
// clock time is at-or-before now.
func UpdateTimePassedToday(now time.Time, first int64, loc *time.Location) bool {
	slot := time.Unix(first, 0).In(loc)
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), slot.Hour(), slot.Minute(), 0, 0, loc)
	return !today.After(local)
}

// WeekStartAt returns Monday 00:00 of the current ISO week.
func WeekStartAt(now time.Time, loc *time.Location) int64 {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -int(ISOWeekday(local)-Monday)).Unix()
}
