package anime

import (
	"context"
	"sort"

	"github.com/aniweek-io/web-ui/services/airing"
)

type ScheduleSlot struct {
	Time  string             `json:"time"`
	Items []*airing.Enriched `json:"items"`
}

type ScheduleDay struct {
	Weekday airing.Weekday `json:"weekday"`
	Slots   []ScheduleSlot `json:"slots"`
}

// WeeklySchedule groups the current week's airing shows by ISO weekday and
// clock time. Serializing shows always appear; completed shows stay on the
// board until the week of their final episode has passed; not-yet-started
// shows are excluded.
func (s *Service) WeeklySchedule(ctx context.Context) ([]ScheduleDay, error) {
	rows, err := s.cachedRows(ctx)
	if err != nil {
		return nil, err
	}
	weekStart := s.engine.WeekStart()

	byDay := map[airing.Weekday]map[string][]*airing.Enriched{}
	for _, rec := range rows {
		en := s.engine.Enrich(rec)
		switch en.Status {
		case airing.StatusSerializing:
		case airing.StatusCompleted:
			if en.LastEpisodeTimestamp == nil || *en.LastEpisodeTimestamp <= weekStart {
				continue
			}
		default:
			continue
		}
		slots, ok := byDay[en.UpdateWeekday]
		if !ok {
			slots = map[string][]*airing.Enriched{}
			byDay[en.UpdateWeekday] = slots
		}
		slots[en.UpdateTimeHHmm] = append(slots[en.UpdateTimeHHmm], en)
	}

	days := make([]ScheduleDay, 0, 7)
	for wd := airing.Monday; wd <= airing.Sunday; wd++ {
		day := ScheduleDay{Weekday: wd}
		times := make([]string, 0, len(byDay[wd]))
		for hhmm := range byDay[wd] {
			times = append(times, hhmm)
		}
		// HH:mm sorts chronologically as text
		sort.Strings(times)
		for _, hhmm := range times {
			day.Slots = append(day.Slots, ScheduleSlot{
				Time:  hhmm,
				Items: byDay[wd][hhmm],
			})
		}
		days = append(days, day)
	}
	return days, nil
}
