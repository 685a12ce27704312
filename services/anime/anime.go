package anime

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/webtor-io/lazymap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aniweek-io/web-ui/models"
	"github.com/aniweek-io/web-ui/services/airing"
)

const rowsKey = "anime-rows"

// Service orchestrates writes against the repository and the calendar
// collaborator and serves the enriched read paths. Raw rows are cached
// behind a single invalidation signal, enrichment is recomputed on every
// read because the current time is one of its inputs.
type Service struct {
	store  Store
	events EventStore
	engine *airing.Engine
	rows   *lazymap.LazyMap[[]*models.Anime]
	coll   *collate.Collator
}

func NewService(store Store, events EventStore, engine *airing.Engine) *Service {
	return &Service{
		store:  store,
		events: events,
		engine: engine,
		rows: lazymap.New[[]*models.Anime](&lazymap.Config{
			Expire:      time.Minute,
			ErrorExpire: 10 * time.Second,
		}),
		coll: collate.New(language.English, collate.IgnoreCase),
	}
}

// Add validates the form, schedules the calendar event and inserts the
// record inside one transaction. If the insert fails after the event was
// created, the event is rolled back.
func (s *Service) Add(ctx context.Context, f *Form) (*airing.Enriched, error) {
	rec, verr := f.Normalize(s.engine)
	if verr != nil {
		return nil, verr
	}
	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		existing, err := tx.GetByName(ctx, rec.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return NewFieldError("name", "an anime with this name already exists")
		}
		eventID, err := s.createEvent(ctx, rec)
		if err != nil {
			return errors.Wrap(err, "failed to add calendar event")
		}
		rec.EventID = eventID
		if _, err := tx.Add(ctx, rec); err != nil {
			s.compensateEvent(ctx, eventID)
			if errors.Is(err, models.ErrNameTaken) {
				return NewFieldError("name", "an anime with this name already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateDerived(rec.ID)
	return s.engine.Enrich(rec), nil
}

// Edit replaces the stored facts and the linked calendar event. A missing
// id is a logged no-op and returns nil, the caller has lost the race.
func (s *Service) Edit(ctx context.Context, id int64, f *Form) (*airing.Enriched, error) {
	rec, verr := f.Normalize(s.engine)
	if verr != nil {
		return nil, verr
	}
	var updated *models.Anime
	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		existing, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			log.WithField("id", id).Info("anime not found, skipping edit")
			return nil
		}
		dup, err := tx.GetByNameExcept(ctx, rec.Name, id)
		if err != nil {
			return err
		}
		if dup != nil {
			return NewFieldError("name", "an anime with this name already exists")
		}
		if err := s.deleteEvent(ctx, existing); err != nil {
			return errors.Wrap(err, "failed to delete calendar event")
		}
		eventID, err := s.createEvent(ctx, rec)
		if err != nil {
			return errors.Wrap(err, "failed to add calendar event")
		}
		rec.ID = id
		rec.EventID = eventID
		if err := tx.Update(ctx, rec); err != nil {
			s.compensateEvent(ctx, eventID)
			if errors.Is(err, models.ErrNameTaken) {
				return NewFieldError("name", "an anime with this name already exists")
			}
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}
	s.InvalidateDerived(id)
	return s.engine.Enrich(updated), nil
}

// Delete removes the record and its calendar event, event first. A missing
// id is a logged no-op.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		existing, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			log.WithField("id", id).Info("anime not found, skipping delete")
			return nil
		}
		if err := s.deleteEvent(ctx, existing); err != nil {
			return errors.Wrap(err, "failed to delete calendar event")
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.InvalidateDerived(id)
	return nil
}

// Get returns one enriched record, nil when absent.
func (s *Service) Get(ctx context.Context, id int64) (*airing.Enriched, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return s.engine.Enrich(rec), nil
}

// List returns the whole collection enriched, newest first, or in collated
// name order when byName is set.
func (s *Service) List(ctx context.Context, byName bool) ([]*airing.Enriched, error) {
	rows, err := s.cachedRows(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]*airing.Enriched, len(rows))
	for i, rec := range rows {
		list[i] = s.engine.Enrich(rec)
	}
	if byName {
		sort.SliceStable(list, func(i, j int) bool {
			return s.coll.CompareString(list[i].Name, list[j].Name) < 0
		})
	}
	return list, nil
}

// Search matches names by substring and enriches the hits.
func (s *Service) Search(ctx context.Context, query string) ([]*airing.Enriched, error) {
	rows, err := s.store.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}
	list := make([]*airing.Enriched, len(rows))
	for i, rec := range rows {
		list[i] = s.engine.Enrich(rec)
	}
	return list, nil
}

func (s *Service) cachedRows(ctx context.Context) ([]*models.Anime, error) {
	return s.rows.Get(rowsKey, func() ([]*models.Anime, error) {
		return s.store.List(ctx)
	})
}

// InvalidateDerived is the single signal every mutation and the refresh
// hook emit. All read paths go through the same cached row set, so one
// drop covers them uniformly.
func (s *Service) InvalidateDerived(id int64) {
	s.rows.Drop(rowsKey)
	log.WithField("id", id).Debug("dropped derived anime views")
}

// RefreshDerived is the background refresh body: re-derive the schedule
// state from stored facts and drop dependent read caches. Everything is
// recomputed from scratch, a missed cycle self-corrects on the next tick.
func (s *Service) RefreshDerived(ctx context.Context) error {
	rows, err := s.store.List(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load anime for refresh")
	}
	counts := map[airing.Status]int{}
	for _, rec := range rows {
		counts[s.engine.Enrich(rec).Status]++
	}
	s.InvalidateDerived(0)
	log.WithFields(log.Fields{
		"total":       len(rows),
		"serializing": counts[airing.StatusSerializing],
		"completed":   counts[airing.StatusCompleted],
		"toBeUpdated": counts[airing.StatusToBeUpdated],
	}).Info("refreshed airing schedule state")
	return nil
}

// ImportRecords inserts raw stored facts in one batch transaction. Names
// that already exist are skipped with a log line, stale event ids were
// dropped by the caller.
func (s *Service) ImportRecords(ctx context.Context, list []*models.Anime) (int, []string, error) {
	var skipped []string
	added := 0
	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		var toAdd []*models.Anime
		for _, rec := range list {
			existing, err := tx.GetByName(ctx, rec.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				log.WithField("name", rec.Name).Info("anime already exists, skipping import")
				skipped = append(skipped, rec.Name)
				continue
			}
			toAdd = append(toAdd, rec)
		}
		if len(toAdd) == 0 {
			return nil
		}
		if _, err := tx.AddList(ctx, toAdd); err != nil {
			return err
		}
		added = len(toAdd)
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	s.InvalidateDerived(0)
	return added, skipped, nil
}
