package migrations

import (
	"github.com/go-pg/migrations/v8"
)

func CreateAnime(col *migrations.Collection) {
	col.MustRegisterTx(func(db migrations.DB) error {
		_, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS anime (
				id bigserial PRIMARY KEY,
				name text NOT NULL,
				total_episode integer NOT NULL DEFAULT 0,
				cover text NOT NULL DEFAULT '',
				first_episode_timestamp bigint NOT NULL DEFAULT 0,
				event_id text,
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			);
			CREATE UNIQUE INDEX IF NOT EXISTS anime_name_uniq ON anime (name);
		`)
		return err
	}, func(db migrations.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS anime`)
		return err
	})
}
