package anime

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aniweek-io/web-ui/models"
	"github.com/aniweek-io/web-ui/services/airing"
)

// ValidationError carries per-field messages back to the form. Nothing is
// ever coerced, a failed field blocks the whole submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *ValidationError) orNil() *ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewFieldError reports a single-field failure, duplicate names use it.
func NewFieldError(field, message string) *ValidationError {
	e := &ValidationError{}
	e.add(field, message)
	return e
}

var hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

const maxNameLength = 20

// Form is the discriminated add/edit payload. Status selects which of the
// three field groups is required:
//
//   - serializing: currentEpisode + updateWeekday + updateTimeHHmm, the
//     first-episode instant is derived backwards from them;
//   - completed: lastEpisodeAt, the first-episode instant is the given
//     instant minus (totalEpisode-1) weeks;
//   - toBeUpdated: firstEpisodeAt directly.
type Form struct {
	Name         string        `json:"name"`
	TotalEpisode int           `json:"totalEpisode"`
	Cover        string        `json:"cover"`
	Status       airing.Status `json:"status"`

	CurrentEpisode int            `json:"currentEpisode,omitempty"`
	UpdateWeekday  airing.Weekday `json:"updateWeekday,omitempty"`
	UpdateTimeHHmm string         `json:"updateTimeHHmm,omitempty"`

	LastEpisodeAt string `json:"lastEpisodeAt,omitempty"`

	FirstEpisodeAt string `json:"firstEpisodeAt,omitempty"`
}

// Normalize validates the form and resolves it into the stored facts. The
// declared status is cross-checked against the status the engine would
// derive from the resolved timestamps, so stored data and read-time
// derivation can never silently disagree.
func (f *Form) Normalize(e *airing.Engine) (*models.Anime, *ValidationError) {
	verr := &ValidationError{}

	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		verr.add("name", "name is required")
	} else if utf8.RuneCountInString(f.Name) > maxNameLength {
		verr.add("name", "name must be at most 20 characters")
	}

	if f.TotalEpisode < 1 {
		verr.add("totalEpisode", "total episode count must be at least 1")
	}

	if u, err := url.ParseRequestURI(f.Cover); err != nil || u.Host == "" {
		verr.add("cover", "cover must be a valid URL")
	}

	var first int64
	switch f.Status {
	case airing.StatusSerializing:
		first = f.normalizeSerializing(e, verr)
	case airing.StatusCompleted:
		first = f.normalizeCompleted(e, verr)
	case airing.StatusToBeUpdated:
		first = f.normalizeToBeUpdated(e, verr)
	default:
		verr.add("status", "unknown status")
	}

	if v := verr.orNil(); v != nil {
		return nil, v
	}
	return &models.Anime{
		Name:                  f.Name,
		TotalEpisode:          f.TotalEpisode,
		Cover:                 f.Cover,
		FirstEpisodeTimestamp: first,
	}, nil
}

func (f *Form) normalizeSerializing(e *airing.Engine, verr *ValidationError) int64 {
	if f.CurrentEpisode < 1 {
		verr.add("currentEpisode", "show has not started airing yet, choose the toBeUpdated status")
	}
	if f.TotalEpisode >= 1 {
		if f.CurrentEpisode > f.TotalEpisode {
			verr.add("currentEpisode", "current episode cannot exceed the total episode count")
		} else if f.CurrentEpisode == f.TotalEpisode {
			verr.add("currentEpisode", "show has already completed, choose the completed status")
		}
	}
	if !f.UpdateWeekday.Valid() {
		verr.add("updateWeekday", "choose a weekday")
	}
	if !hhmmRe.MatchString(f.UpdateTimeHHmm) {
		verr.add("updateTimeHHmm", "time must be in HH:mm format")
	}
	if len(verr.Fields) > 0 {
		return 0
	}
	first, err := e.FirstEpisode(f.CurrentEpisode, f.UpdateWeekday, f.UpdateTimeHHmm)
	if err != nil {
		verr.add("updateTimeHHmm", "time must be in HH:mm format")
		return 0
	}
	return first
}

func (f *Form) normalizeCompleted(e *airing.Engine, verr *ValidationError) int64 {
	if f.LastEpisodeAt == "" {
		verr.add("lastEpisodeAt", "choose a date")
		return 0
	}
	last, err := time.ParseInLocation(airing.DateTimeLayout, f.LastEpisodeAt, e.Location())
	if err != nil {
		verr.add("lastEpisodeAt", "date must be in YYYY-MM-DD HH:mm format")
		return 0
	}
	first := last.Unix() - int64(f.TotalEpisode-1)*airing.SecondsPerWeek
	if f.TotalEpisode >= 1 {
		switch airing.StatusAt(e.Now(), first, last.Unix()) {
		case airing.StatusSerializing:
			verr.add("lastEpisodeAt", "show is still airing, choose the serializing status")
		case airing.StatusToBeUpdated:
			verr.add("lastEpisodeAt", "show has not started airing yet, choose the toBeUpdated status")
		}
	}
	return first
}

func (f *Form) normalizeToBeUpdated(e *airing.Engine, verr *ValidationError) int64 {
	if f.FirstEpisodeAt == "" {
		verr.add("firstEpisodeAt", "choose a date")
		return 0
	}
	first, err := time.ParseInLocation(airing.DateTimeLayout, f.FirstEpisodeAt, e.Location())
	if err != nil {
		verr.add("firstEpisodeAt", "date must be in YYYY-MM-DD HH:mm format")
		return 0
	}
	if f.TotalEpisode >= 1 {
		last := airing.LastEpisodeAt(first.Unix(), f.TotalEpisode)
		switch airing.StatusAt(e.Now(), first.Unix(), last) {
		case airing.StatusCompleted:
			verr.add("firstEpisodeAt", "show has already completed, choose the completed status")
		case airing.StatusSerializing:
			verr.add("firstEpisodeAt", "show is already airing, choose the serializing status")
		}
	}
	return first.Unix()
}
