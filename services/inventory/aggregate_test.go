package inventory

import (
	"testing"

	"shottys-backend/lib/scrapers/markov"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// two same-day rows for the same item and owner collapse into a single
// record with summed totals and a recomputed unit cost
func TestAggregateMergesDuplicates(t *testing.T) {
	rows := []markov.Row{
		{"Owner": "4", "Date": "2024-01-02", "ItemCode": "X1", "Qty": "10", "ActualValue": "50"},
		{"Owner": "4", "Date": "2024-01-02", "ItemCode": "X1", "Qty": "5", "ActualValue": "20"},
	}
	candidates := Normalize(rows, NormalizeOptions{ReferenceDate: "2024-01-02"})
	require.Len(t, candidates, 2)

	got := Aggregate(candidates)
	require.Len(t, got, 1)
	require.Equal(t, "X1-0-SHOTTYS-2024-01-02", got[0].Key)
	require.Equal(t, 15.0, got[0].Qty)
	require.Equal(t, 70.0, got[0].ActualValue)
	require.InDelta(t, 4.667, got[0].ActualUnitCost, 0.001)
}

// merged duplicates never overwrite the first candidate's descriptive
// fields, the reported gl_group/type/unit stay stable across a run
func TestAggregateFirstSeenWins(t *testing.T) {
	got := Aggregate([]Record{
		{Key: "k", Qty: 1, ActualValue: 2, GLGroup: "RAW", Type: "Material", Unit: "kg"},
		{Key: "k", Qty: 1, ActualValue: 2, GLGroup: "FIN", Type: "Product", Unit: "ea"},
	})
	require.Len(t, got, 1)
	require.Equal(t, "RAW", got[0].GLGroup)
	require.Equal(t, "Material", got[0].Type)
	require.Equal(t, "kg", got[0].Unit)
	require.Equal(t, 2.0, got[0].Qty)
	require.Equal(t, 2.0, got[0].ActualUnitCost)
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	got := Aggregate([]Record{
		{Key: "b", Qty: 1},
		{Key: "a", Qty: 1},
		{Key: "b", Qty: 1},
		{Key: "c", Qty: 1},
	})
	keys := make([]string, len(got))
	for i, r := range got {
		keys[i] = r.Key
	}
	require.Equal(t, []string{"b", "a", "c"}, keys)
}

func TestAggregateIdempotent(t *testing.T) {
	once := Aggregate([]Record{
		{Key: "a", Qty: 10, ActualValue: 50, ActualUnitCost: 5, GLGroup: "RAW"},
		{Key: "a", Qty: 5, ActualValue: 20},
		{Key: "b", Qty: 2, ActualValue: 3, ActualUnitCost: 1.5},
	})
	twice := Aggregate(once)
	require.Empty(t, cmp.Diff(once, twice))
}

func TestAggregateQtySumsToZero(t *testing.T) {
	got := Aggregate([]Record{
		{Key: "k", Qty: 5, ActualValue: 10, ActualUnitCost: 2},
		{Key: "k", Qty: -5, ActualValue: 4},
	})
	require.Len(t, got, 1)
	require.Equal(t, 0.0, got[0].Qty)
	require.Equal(t, 14.0, got[0].ActualValue)
	require.Equal(t, 0.0, got[0].ActualUnitCost)
}

func TestAggregateEmpty(t *testing.T) {
	require.Empty(t, Aggregate(nil))
}
