package anime

import (
	"context"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/pkg/errors"
	cs "github.com/webtor-io/common-services"

	"github.com/aniweek-io/web-ui/models"
)

// Store is the persistence seam of the orchestration. InTx hands out a
// store bound to one transaction so multi-step write sequences commit or
// abort as a unit.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Add(ctx context.Context, a *models.Anime) (*models.Anime, error)
	AddList(ctx context.Context, list []*models.Anime) ([]*models.Anime, error)
	GetByID(ctx context.Context, id int64) (*models.Anime, error)
	GetByName(ctx context.Context, name string) (*models.Anime, error)
	GetByNameExcept(ctx context.Context, name string, id int64) (*models.Anime, error)
	Update(ctx context.Context, a *models.Anime) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Anime, error)
	SearchByName(ctx context.Context, query string) ([]*models.Anime, error)
}

type pgStore struct {
	pg *cs.PG
	db orm.DB
}

func NewStore(pg *cs.PG) Store {
	return &pgStore{pg: pg}
}

func (s *pgStore) get() (orm.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db := s.pg.Get()
	if db == nil {
		return nil, errors.New("database connection is not available")
	}
	return db, nil
}

func (s *pgStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.db != nil {
		// already inside a transaction
		return fn(ctx, s)
	}
	db := s.pg.Get()
	if db == nil {
		return errors.New("database connection is not available")
	}
	return db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return fn(ctx, &pgStore{db: tx})
	})
}

func (s *pgStore) Add(ctx context.Context, a *models.Anime) (*models.Anime, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	return models.AddAnime(ctx, db, a)
}

func (s *pgStore) AddList(ctx context.Context, list []*models.Anime) ([]*models.Anime, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	return models.AddAnimeList(ctx, db, list)
}

func (s *pgStore) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	return models.GetAnimeByID(ctx, db, id)
}

func (s *pgStore) GetByName(ctx context.Context, name string) (*models.Anime, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	return models.GetAnimeByName(ctx, db, name)
}

func (s *pgStore) GetByNameExcept(ctx context.Context, name string, id int64) (*models.Anime, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	return models.GetAnimeByNameExcept(ctx, db, name, id)
}

func (s *pgStore) Update(ctx context.Context, a *models.Anime) error {
	db, err := s.get()
	if err != nil {
		return err
	}
	return models.UpdateAnimeByID(ctx, db, a)
}

func (s *pgStore) Delete(ctx context.Context, id int64) error {
	db, err := s.get()
	if err != nil {
		return err
	}
	return models.DeleteAnimeByID(ctx, db, id)
}

func (s *pgStore) List(ctx context.Context) ([]*models.Anime, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	return models.GetAnimeList(ctx, db)
}

func (s *pgStore) SearchByName(ctx context.Context, query string) ([]*models.Anime, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	return models.SearchAnimeByName(ctx, db, query)
}
