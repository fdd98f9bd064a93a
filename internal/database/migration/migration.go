// Package migration bootstraps the shop schema on an empty database.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shopapi/internal/database"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable marks an already migrated schema. It is the last table the
// steps create.
const sentinelTable = "order_items"

var steps = []migrationStep{
	{
		Name: "create_table_members",
		SQL: `CREATE TABLE IF NOT EXISTS members (
  id      BIGSERIAL PRIMARY KEY,
  name    TEXT      NOT NULL,
  city    TEXT      NOT NULL DEFAULT '',
  street  TEXT      NOT NULL DEFAULT '',
  zipcode TEXT      NOT NULL DEFAULT '',
  CONSTRAINT uk_members_name UNIQUE (name)
);`,
	},
	{
		Name: "create_table_items",
		SQL: `CREATE TABLE IF NOT EXISTS items (
  id             BIGSERIAL PRIMARY KEY,
  name           TEXT      NOT NULL,
  price          INTEGER   NOT NULL CHECK (price >= 0),
  stock_quantity INTEGER   NOT NULL CHECK (stock_quantity >= 0),
  author         TEXT      NOT NULL DEFAULT '',
  isbn           TEXT      NOT NULL DEFAULT '',
  image_key      TEXT      NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_deliveries",
		SQL: `CREATE TABLE IF NOT EXISTS deliveries (
  id      BIGSERIAL PRIMARY KEY,
  city    TEXT      NOT NULL DEFAULT '',
  street  TEXT      NOT NULL DEFAULT '',
  zipcode TEXT      NOT NULL DEFAULT '',
  status  TEXT      NOT NULL CHECK (status IN ('READY', 'COMP'))
);`,
	},
	{
		Name: "create_table_orders",
		SQL: `CREATE TABLE IF NOT EXISTS orders (
  id          BIGSERIAL   PRIMARY KEY,
  member_id   BIGINT      NOT NULL REFERENCES members (id),
  delivery_id BIGINT      NOT NULL UNIQUE REFERENCES deliveries (id),
  order_date  TIMESTAMPTZ NOT NULL DEFAULT now(),
  status      TEXT        NOT NULL CHECK (status IN ('ORDER', 'CANCEL'))
);`,
	},
	{
		Name: "create_table_order_items",
		SQL: `CREATE TABLE IF NOT EXISTS order_items (
  id          BIGSERIAL PRIMARY KEY,
  order_id    BIGINT    NOT NULL REFERENCES orders (id),
  item_id     BIGINT    NOT NULL REFERENCES items (id),
  order_price INTEGER   NOT NULL,
  count       INTEGER   NOT NULL CHECK (count > 0)
);`,
	},
	{
		Name: "create_index_orders_member_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_member_id ON orders (member_id);`,
	},
	{
		Name: "create_index_orders_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);`,
	},
	{
		Name: "create_index_order_items_order_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id);`,
	},
	{
		Name: "create_index_order_items_item_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_order_items_item_id ON order_items (item_id);`,
	},
}

// EnsureMigrated creates the schema step by step unless the sentinel table
// already exists. All steps run in one transaction, so a failed run leaves
// nothing behind and the next call starts over. Every step is logged with its
// duration.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Msg("checking schema")

	var exists bool
	query := "SELECT to_regclass('public." + sentinelTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("migrating")

	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, step := range steps {
			stepStart := time.Now()
			if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
				log.Error().Err(err).
					Str("event", "db_migration_failed").
					Str("migration_step", step.Name).
					Int64("duration_ms", time.Since(start).Milliseconds()).
					Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
					Msg("migration step failed")
				return fmt.Errorf("migration step %s failed: %w", step.Name, err)
			}

			log.Info().
				Str("event", "db_migration_step").
				Str("migration_step", step.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step applied")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("migration complete")
	return nil
}
