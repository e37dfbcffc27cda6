package inventory

import (
	"context"
	"fmt"

	"shottys-backend/services/inventory/db"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Store struct {
	db *sqlx.DB
}

func NewStore(database *sqlx.DB) Store {
	return Store{db: database}
}

// OpenStore connects with the given driver, verifies the server is
// actually reachable and applies the schema idempotently.
func OpenStore(driver, dsn string) (Store, error) {
	database, err := sqlx.Open(driver, dsn)
	if err != nil {
		return Store{}, err
	}
	err = database.Ping()
	if err != nil {
		database.Close()
		return Store{}, err
	}
	_, err = database.Exec(db.Schema)
	if err != nil {
		database.Close()
		return Store{}, err
	}
	return Store{db: database}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

func (s Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s Store) Version(ctx context.Context) (string, error) {
	var version string
	err := s.db.GetContext(ctx, &version, "SELECT version()")
	return version, err
}

const upsertRecord = `
INSERT INTO inventory_cost (
    key, gl_group, type, qty, unit,
    actual_unit_cost, actual_value, date, area, item
) VALUES (
    :key, :gl_group, :type, :qty, :unit,
    :actual_unit_cost, :actual_value, :date, :area, :item
)
ON CONFLICT (key) DO UPDATE SET
    gl_group = EXCLUDED.gl_group,
    type = EXCLUDED.type,
    qty = EXCLUDED.qty,
    unit = EXCLUDED.unit,
    actual_unit_cost = EXCLUDED.actual_unit_cost,
    actual_value = EXCLUDED.actual_value,
    date = EXCLUDED.date,
    area = EXCLUDED.area,
    item = EXCLUDED.item`

// Upsert writes the whole batch in one transaction keyed on the
// composite key, a conflict overwrites every non-key column. a failing
// record rolls back everything written in this run.
func (s Store) Upsert(ctx context.Context, records []Record) (int, error) {
	ctx, span := tracer.Start(ctx, "store:Upsert")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.NamedExecContext(ctx, upsertRecord, r)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, fmt.Errorf("upsert %s: %w", r.Key, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return len(records), nil
}
