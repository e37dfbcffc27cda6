package testutil

import (
	"fmt"
	"testing"

	"shottys-backend/lib/telemetry"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type StoreParams struct {
	Name string
	// schema applied to the fresh database, optional
	Schema string
}

// SetupStore opens an in-memory sqlite database standing in for the
// production server, plus telemetry for the test. sqlite understands
// the same ON CONFLICT upsert dialect the real store uses.
func SetupStore(t testing.TB, params StoreParams) (*sqlx.DB, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	database, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// every pooled connection would otherwise get its own empty
	// in-memory database
	database.SetMaxOpenConns(1)

	if params.Schema != "" {
		_, err = database.Exec(params.Schema)
		if err != nil {
			t.Fatal(err)
		}
	}

	return database, func() {
		database.Close()
		cleanup()
	}
}
