package markov

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func values(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = Value(s)
	}
	return out
}

func payload(keys []string, columns []Column, encodeMaps map[string][]Value) *DashboardItemData {
	entries := make([]SliceEntry, len(keys))
	for i, k := range keys {
		entries[i] = SliceEntry{Key: k, Meta: json.RawMessage(`{}`)}
	}
	return &DashboardItemData{
		ItemData: ItemData{
			DataStorageDTO: DataStorage{
				Slices:     []Slice{{Data: SliceData{Entries: entries}}},
				EncodeMaps: encodeMaps,
			},
		},
		ViewModel: ViewModel{Columns: columns},
	}
}

func TestDecodeRows(t *testing.T) {
	data := payload(
		[]string{"[0,0,1]", "[1,-1,0]"},
		[]Column{
			{Caption: "Date", DataId: "DataItem0"},
			{Caption: "Owner", DataId: "DataItem1"},
			{Caption: "ItemCode", DataId: "DataItem2"},
		},
		map[string][]Value{
			"DataItem0": values("2024-01-02T00:00:00", "2024-01-03T00:00:00"),
			"DataItem1": values("4"),
			"DataItem2": values("X1", "X2"),
		},
	)

	rows, err := DecodeRows(data)
	require.NoError(t, err)

	expected := []Row{
		{"Date": "2024-01-02T00:00:00", "Owner": "4", "ItemCode": "X2"},
		{"Date": "2024-01-03T00:00:00", "ItemCode": "X1"},
	}
	require.Empty(t, cmp.Diff(expected, rows))
}

// a row whose array holds only sentinels still decodes, it just
// contributes no fields
func TestDecodeRowsSentinelOnly(t *testing.T) {
	data := payload(
		[]string{"[-1,-1]"},
		[]Column{
			{Caption: "Date", DataId: "DataItem0"},
			{Caption: "Owner", DataId: "DataItem1"},
		},
		map[string][]Value{
			"DataItem0": values("2024-01-02"),
			"DataItem1": values("4"),
		},
	)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Empty(t, rows[0])
}

func TestDecodeRowsMissingDictionary(t *testing.T) {
	data := payload(
		[]string{"[2,-1,5]", "[0,0,0]"},
		[]Column{
			{Caption: "A", DataId: "DataItem0"},
			{Caption: "B", DataId: "DataItemGone"},
			{Caption: "C", DataId: "DataItem2"},
		},
		map[string][]Value{
			"DataItem0": values("a0", "a1", "a2"),
			"DataItem2": values("c0", "c1", "c2", "c3", "c4", "c5"),
		},
	)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]Row{
		{"A": "a2", "C": "c5"},
		{"A": "a0", "C": "c0"},
	}, rows))
}

func TestDecodeRowsToleratesBadEntries(t *testing.T) {
	data := payload(
		[]string{
			"GrandTotals",  // no array prefix
			"[0,1",         // truncated
			"[0.5]",        // not integers
			"[0,9]",        // dictionary index out of range
			"[0,0,0,0,0]",  // longer than the column list
			"[-2,0]",       // negative index that is not the sentinel
		},
		[]Column{
			{Caption: "A", DataId: "DataItem0"},
			{Caption: "B", DataId: "DataItem1"},
		},
		map[string][]Value{
			"DataItem0": values("a0"),
			"DataItem1": values("b0"),
		},
	)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]Row{
		{"A": "a0"},
		{"A": "a0", "B": "b0"},
		{"B": "b0"},
	}, rows))
}

func TestDecodeRowsStructuralErrors(t *testing.T) {
	columns := []Column{{Caption: "A", DataId: "DataItem0"}}
	maps := map[string][]Value{"DataItem0": values("a0")}

	noSlices := payload(nil, columns, maps)
	noSlices.ItemData.DataStorageDTO.Slices = nil
	_, err := DecodeRows(noSlices)
	require.Error(t, err)

	noMaps := payload([]string{"[0]"}, columns, nil)
	_, err = DecodeRows(noMaps)
	require.Error(t, err)

	noColumns := payload([]string{"[0]"}, nil, maps)
	_, err = DecodeRows(noColumns)
	require.Error(t, err)
}

// the raw response interleaves rows with metadata, stores numbers
// unquoted in the encode maps and relies on object ordering, all of
// which must survive unmarshalling
func TestPayloadUnmarshal(t *testing.T) {
	raw := `{
		"ItemData": {
			"DataStorageDTO": {
				"Slices": [{
					"Data": {
						"[1,0]": {"0":{"val":20}},
						"[0,0]": {"0":{"val":10}},
						"GrandTotals": {"count": 2}
					}
				}],
				"EncodeMaps": {
					"DataItem0": ["X1", "X2"],
					"DataItem1": [10, 20.5]
				}
			}
		},
		"ViewModel": {
			"Columns": [
				{"Caption": "ItemCode", "DataId": "DataItem0"},
				{"Caption": "Qty", "DataId": "DataItem1"}
			]
		}
	}`

	var data DashboardItemData
	err := json.Unmarshal([]byte(raw), &data)
	require.NoError(t, err)

	entries := data.ItemData.DataStorageDTO.Slices[0].Data.Entries
	require.Len(t, entries, 3)
	require.Equal(t, "[1,0]", entries[0].Key)
	require.Equal(t, "[0,0]", entries[1].Key)
	require.Equal(t, "GrandTotals", entries[2].Key)

	rows, err := DecodeRows(&data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]Row{
		{"ItemCode": "X2", "Qty": "10"},
		{"ItemCode": "X1", "Qty": "10"},
	}, rows))
}
