package anime

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/aniweek-io/web-ui/models"
)

// EventStore is the external calendar collaborator. It is best-effort
// state, the tracker stores its ids verbatim and nothing else.
type EventStore interface {
	AddEvent(ctx context.Context, name string, first int64, current, total int) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// createEvent schedules a calendar event for a record about to be written.
// Without a configured event store the record keeps a null event id.
func (s *Service) createEvent(ctx context.Context, rec *models.Anime) (*string, error) {
	if s.events == nil {
		return nil, nil
	}
	current := s.engine.CurrentEpisode(rec.FirstEpisodeTimestamp, rec.TotalEpisode)
	eventID, err := s.events.AddEvent(ctx, rec.Name, rec.FirstEpisodeTimestamp, current, rec.TotalEpisode)
	if err != nil {
		return nil, err
	}
	return &eventID, nil
}

// compensateEvent removes an event whose record never made it into the
// database. Failure leaves a record-less event behind, logged with its id
// for repair.
func (s *Service) compensateEvent(ctx context.Context, eventID *string) {
	if s.events == nil || eventID == nil {
		return
	}
	if err := s.events.DeleteEvent(ctx, *eventID); err != nil {
		log.WithError(err).WithField("event_id", *eventID).Error("failed to roll back calendar event")
	}
}

// deleteEvent removes the event a record points at, before any record
// mutation. A crash mid-sequence then leaves at worst a stale record
// pointing at a gone event, never an orphaned event.
func (s *Service) deleteEvent(ctx context.Context, rec *models.Anime) error {
	if s.events == nil || rec.EventID == nil {
		return nil
	}
	return s.events.DeleteEvent(ctx, *rec.EventID)
}
