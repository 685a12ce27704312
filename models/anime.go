package models

import (
	"context"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNameTaken is returned when an anime with the same name already exists.
var ErrNameTaken = errors.New("anime name already taken")

type Anime struct {
	tableName struct{} `pg:"anime"`

	ID                    int64     `pg:"id,pk" json:"id"`
	Name                  string    `pg:"name,notnull,unique" json:"name"`
	TotalEpisode          int       `pg:"total_episode,notnull,use_zero" json:"totalEpisode"`
	Cover                 string    `pg:"cover,notnull" json:"cover"`
	FirstEpisodeTimestamp int64     `pg:"first_episode_timestamp,notnull,use_zero" json:"firstEpisodeTimestamp"`
	EventID               *string   `pg:"event_id" json:"eventId"`
	CreatedAt             time.Time `pg:"created_at,default:now()" json:"-"`
	UpdatedAt             time.Time `pg:"updated_at,default:now()" json:"-"`
}

// AddAnime inserts a new record and returns it with the assigned id.
// A unique violation on the name maps to ErrNameTaken.
func AddAnime(ctx context.Context, db orm.DB, a *Anime) (*Anime, error) {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := db.ModelContext(ctx, a).Insert()
	if err != nil {
		if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
			return nil, ErrNameTaken
		}
		return nil, errors.Wrap(err, "failed to insert anime")
	}
	return a, nil
}

// AddAnimeList inserts records in bulk. The caller provides the transaction
// boundary, the whole batch shares it.
func AddAnimeList(ctx context.Context, db orm.DB, list []*Anime) ([]*Anime, error) {
	if len(list) == 0 {
		return nil, nil
	}
	now := time.Now()
	for _, a := range list {
		a.CreatedAt = now
		a.UpdatedAt = now
	}
	_, err := db.ModelContext(ctx, &list).Insert()
	if err != nil {
		if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
			return nil, ErrNameTaken
		}
		return nil, errors.Wrap(err, "failed to insert anime list")
	}
	return list, nil
}

func GetAnimeByID(ctx context.Context, db orm.DB, id int64) (*Anime, error) {
	a := &Anime{}
	err := db.ModelContext(ctx, a).Where("id = ?", id).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch anime by id")
	}
	return a, nil
}

// GetAnimeByName serves the uniqueness check on add.
func GetAnimeByName(ctx context.Context, db orm.DB, name string) (*Anime, error) {
	a := &Anime{}
	err := db.ModelContext(ctx, a).Where("name = ?", name).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch anime by name")
	}
	return a, nil
}

// GetAnimeByNameExcept serves the uniqueness check on edit, the record
// being edited does not collide with itself.
func GetAnimeByNameExcept(ctx context.Context, db orm.DB, name string, id int64) (*Anime, error) {
	a := &Anime{}
	err := db.ModelContext(ctx, a).Where("name = ?", name).Where("id != ?", id).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch anime by name except id")
	}
	return a, nil
}

// UpdateAnimeByID updates the stored facts of a record. An absent id is a
// logged no-op, the caller has already lost the race.
func UpdateAnimeByID(ctx context.Context, db orm.DB, a *Anime) error {
	existing, err := GetAnimeByID(ctx, db, a.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		log.WithField("id", a.ID).Info("anime not found, skipping update")
		return nil
	}
	a.UpdatedAt = time.Now()
	_, err = db.ModelContext(ctx, a).
		Column("name", "total_episode", "cover", "first_episode_timestamp", "event_id", "updated_at").
		WherePK().
		Update()
	if err != nil {
		if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
			return ErrNameTaken
		}
		return errors.Wrap(err, "failed to update anime")
	}
	return nil
}

// DeleteAnimeByID removes a record. An absent id is a logged no-op.
func DeleteAnimeByID(ctx context.Context, db orm.DB, id int64) error {
	res, err := db.ModelContext(ctx, (*Anime)(nil)).Where("id = ?", id).Delete()
	if err != nil {
		return errors.Wrap(err, "failed to delete anime")
	}
	if res.RowsAffected() == 0 {
		log.WithField("id", id).Info("anime not found, skipping delete")
	}
	return nil
}

func GetAnimeList(ctx context.Context, db orm.DB) ([]*Anime, error) {
	var list []*Anime
	err := db.ModelContext(ctx, &list).Order("created_at DESC").Select()
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch anime list")
	}
	return list, nil
}

// SearchAnimeByName matches names case-insensitively by substring.
func SearchAnimeByName(ctx context.Context, db orm.DB, query string) ([]*Anime, error) {
	var list []*Anime
	err := db.ModelContext(ctx, &list).
		Where("name ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, errors.Wrap(err, "failed to search anime by name")
	}
	return list, nil
}
