package markov

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Row is one decoded dashboard row, keyed by column caption. columns
// whose index could not be resolved are simply absent.
type Row map[string]string

// DecodeRows flattens the dictionary-compressed row slices into one
// key-value row per slice entry, in document order. individual fields
// that cannot be resolved (sentinel -1, unknown column, missing or
// too-short dictionary) are dropped without failing the row, only a
// payload missing a whole section is an error.
func DecodeRows(data *DashboardItemData) ([]Row, error) {
	storage := data.ItemData.DataStorageDTO
	if len(storage.Slices) == 0 {
		return nil, fmt.Errorf("payload has no data slices")
	}
	if storage.EncodeMaps == nil {
		return nil, fmt.Errorf("payload has no encode maps")
	}
	columns := data.ViewModel.Columns
	if len(columns) == 0 {
		return nil, fmt.Errorf("payload has no column definitions")
	}

	entries := storage.Slices[0].Data.Entries
	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Key, "[") {
			continue
		}
		var indices []int
		err := json.Unmarshal([]byte(entry.Key), &indices)
		if err != nil {
			// the slice object mixes in metadata under keys that only
			// look like arrays, those are not rows
			continue
		}

		row := Row{}
		for i, idx := range indices {
			if idx == -1 {
				// field absent for this row
				continue
			}
			if i >= len(columns) {
				continue
			}
			dict, ok := storage.EncodeMaps[columns[i].DataId]
			if !ok {
				continue
			}
			if idx < 0 || idx >= len(dict) {
				continue
			}
			row[columns[i].Caption] = string(dict[idx])
		}
		rows = append(rows, row)
	}

	return rows, nil
}
