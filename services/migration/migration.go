// Package migration runs the registered go-pg migrations against the
// tracker database, both at serve startup and from the migrate command.
package migration

import (
	"github.com/go-pg/migrations/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	services "github.com/webtor-io/common-services"
)

type PGMigration struct {
	db  *services.PG
	col *migrations.Collection
}

func NewPGMigration(db *services.PG, col *migrations.Collection) *PGMigration {
	return &PGMigration{
		db:  db,
		col: col,
	}
}

func (s *PGMigration) Run(a ...string) error {
	db := s.db.Get()
	if db == nil {
		log.Info("db not configured, skipping schema migration")
		return nil
	}
	s.col.DiscoverSQLMigrations("migrations")
	_, _, err := s.col.Run(db, "init")
	if err != nil {
		return errors.Wrap(err, "failed to init migrations table")
	}
	oldVersion, newVersion, err := s.col.Run(db, a...)
	if err != nil {
		return errors.Wrapf(err, "failed to migrate schema from version %v to %v", oldVersion, newVersion)
	}
	if newVersion != oldVersion {
		log.Infof("anime schema migrated from version %d to %d", oldVersion, newVersion)
	} else {
		log.Infof("anime schema at version %d", oldVersion)
	}
	return nil
}
