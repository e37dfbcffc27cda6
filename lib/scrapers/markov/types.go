package markov

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wire types for the dashboard item payload returned by
// api/dashboard/data/DashboardItemGetAction

type DashboardItemData struct {
	ItemData  ItemData  `json:"ItemData"`
	ViewModel ViewModel `json:"ViewModel"`
}

type ItemData struct {
	DataStorageDTO DataStorage `json:"DataStorageDTO"`
}

type ViewModel struct {
	Columns []Column `json:"Columns"`
}

// Column gives meaning to one positional slot of a row slice, DataId
// names the dictionary holding the column's distinct values.
type Column struct {
	Caption string `json:"Caption"`
	DataId  string `json:"DataId"`
}

type DataStorage struct {
	Slices     []Slice            `json:"Slices"`
	EncodeMaps map[string][]Value `json:"EncodeMaps"`
}

type Slice struct {
	Data SliceData `json:"Data"`
}

// Value is a single dictionary entry. the dashboard mixes strings and
// raw numbers in its encode maps, both decode to the string form the
// transform works with.
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		err := json.Unmarshal(b, &s)
		if err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	if string(b) == "null" {
		*v = ""
		return nil
	}
	// numbers and booleans keep their literal text
	*v = Value(b)
	return nil
}

type SliceEntry struct {
	// stringified array of dictionary indices, e.g. "[0,3,-1,7]",
	// though the object also carries non-row metadata keys
	Key  string
	Meta json.RawMessage
}

// SliceData is the row-slice object with its document order intact.
// row output order is defined as insertion order, which decoding into
// a plain map would destroy.
type SliceData struct {
	Entries []SliceEntry
}

func (d *SliceData) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("slice data: expected an object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("slice data: expected a string key, got %v", keyTok)
		}
		var meta json.RawMessage
		err = dec.Decode(&meta)
		if err != nil {
			return err
		}
		d.Entries = append(d.Entries, SliceEntry{Key: key, Meta: meta})
	}

	_, err = dec.Token()
	return err
}

func (d SliceData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(e.Meta) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(e.Meta)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
