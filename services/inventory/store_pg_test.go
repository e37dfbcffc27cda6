package inventory

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// same assertions as the sqlite tests but through the real driver and
// the real ON CONFLICT implementation
func TestUpsertPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	pg, err := testcontainers.GenericContainer(
		ctx,
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:16-alpine",
				ExposedPorts: []string{"5432/tcp"},
				Env: map[string]string{
					"POSTGRES_PASSWORD": "inventory",
					"POSTGRES_DB":       "inventory",
				},
				WaitingFor: wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
			},
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		err := pg.Terminate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	})

	endpoint, err := pg.Endpoint(ctx, "")
	require.NoError(t, err)

	store, err := OpenStore("postgres", fmt.Sprintf(
		"postgres://postgres:inventory@%s/inventory?sslmode=disable",
		endpoint,
	))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	version, err := store.Version(ctx)
	require.NoError(t, err)
	require.Contains(t, version, "PostgreSQL")

	written, err := store.Upsert(ctx, []Record{
		{Key: "X1-0-SHOTTYS-2024-01-02", Date: "2024-01-02", Item: "X1", Area: "SHOTTYS", Qty: 15, ActualValue: 70, ActualUnitCost: 70.0 / 15, GLGroup: "RAW", Type: "Material", Unit: "kg"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, written)

	written, err = store.Upsert(ctx, []Record{
		{Key: "X1-0-SHOTTYS-2024-01-02", Date: "2024-01-02", Item: "X1", Area: "SHOTTYS", Qty: 20, ActualValue: 100, ActualUnitCost: 5, GLGroup: "FIN", Type: "Material", Unit: "kg"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, written)

	var got Record
	err = store.db.Get(&got, "SELECT * FROM inventory_cost WHERE key = $1", "X1-0-SHOTTYS-2024-01-02")
	require.NoError(t, err)
	require.Equal(t, 20.0, got.Qty)
	require.Equal(t, "FIN", got.GLGroup)

	var count int
	err = store.db.Get(&count, "SELECT COUNT(*) FROM inventory_cost")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
