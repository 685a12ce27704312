package airing

import (
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	"github.com/aniweek-io/web-ui/models"
	"github.com/aniweek-io/web-ui/services/common"
)

// Engine binds the pure derivation functions to a clock and a single time
// location. Derivations read the clock on every call, nothing is cached.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

func New(c *cli.Context) (*Engine, error) {
	loc, err := common.GetLocation(c)
	if err != nil {
		return nil, err
	}
	return NewWithClock(loc, time.Now), nil
}

// NewWithClock injects the clock, tests fix now here.
func NewWithClock(loc *time.Location, now func() time.Time) *Engine {
	return &Engine{now: now, loc: loc}
}

func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) CurrentEpisode(first int64, total int) int {
	return CurrentEpisodeAt(e.now(), first, total)
}

func (e *Engine) Status(first, last int64) Status {
	return StatusAt(e.now(), first, last)
}

func (e *Engine) FirstEpisode(episode int, weekday Weekday, hhmm string) (int64, error) {
	return FirstEpisodeAt(e.now(), episode, weekday, hhmm, e.loc)
}

func (e *Engine) UpdateTimePassedToday(first int64) bool {
	return UpdateTimePassedToday(e.now(), first, e.loc)
}

func (e *Engine) WeekStart() int64 {
	return WeekStartAt(e.now(), e.loc)
}

// Enriched is a stored record plus its time-derived state. It is rebuilt
// from the record on every read and never persisted.
type Enriched struct {
	*models.Anime
	CurrentEpisode       int     `json:"currentEpisode"`
	LastEpisodeTimestamp *int64  `json:"lastEpisodeTimestamp"`
	Status               Status  `json:"status"`
	UpdateWeekday        Weekday `json:"updateWeekday"`
	UpdateTimeHHmm       string  `json:"updateTimeHHmm"`
	UpdatedToday         bool    `json:"updatedToday"`
	NextEpisodeIn        string  `json:"nextEpisodeIn,omitempty"`
}

// Enrich derives the display state of a record at the engine's current
// time. A record with the total <= 0 sentinel never completes and carries
// no last-episode timestamp.
func (e *Engine) Enrich(a *models.Anime) *Enriched {
	now := e.now()
	slot := time.Unix(a.FirstEpisodeTimestamp, 0).In(e.loc)

	en := &Enriched{
		Anime:          a,
		CurrentEpisode: CurrentEpisodeAt(now, a.FirstEpisodeTimestamp, a.TotalEpisode),
		UpdateWeekday:  ISOWeekday(slot),
		UpdateTimeHHmm: slot.Format(HHmmLayout),
	}

	if a.TotalEpisode > 0 {
		last := LastEpisodeAt(a.FirstEpisodeTimestamp, a.TotalEpisode)
		en.LastEpisodeTimestamp = &last
		en.Status = StatusAt(now, a.FirstEpisodeTimestamp, last)
	} else if now.Unix() < a.FirstEpisodeTimestamp {
		en.Status = StatusToBeUpdated
	} else {
		en.Status = StatusSerializing
	}

	en.UpdatedToday = en.Status == StatusSerializing &&
		en.UpdateWeekday == ISOWeekday(now.In(e.loc)) &&
		UpdateTimePassedToday(now, a.FirstEpisodeTimestamp, e.loc)

	switch en.Status {
	case StatusToBeUpdated:
		en.NextEpisodeIn = humanize.RelTime(time.Unix(a.FirstEpisodeTimestamp, 0), now, "ago", "from now")
	case StatusSerializing:
		if a.TotalEpisode <= 0 || en.CurrentEpisode < a.TotalEpisode {
			next := a.FirstEpisodeTimestamp + int64(en.CurrentEpisode)*SecondsPerWeek
			en.NextEpisodeIn = humanize.RelTime(time.Unix(next, 0), now, "ago", "from now")
		}
	}

	return en
}
