package engine

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Format selects one of the Engine's built-in Encoders for Export.
type Format int

const (
	// FormatNone performs no encoding; Export returns the raw []any.
	FormatNone Format = iota
	// FormatJSON encodes records as a JSON array.
	FormatJSON
	// FormatCSV flattens records into CSV rows ([][]string), with the
	// first record's keys, sorted, as the header row.
	FormatCSV
)

// Encoder turns the flattened record list into whatever representation
// the caller wants back from Export. ExportWith accepts a caller-supplied
// Encoder so the built-in Format set never has to be exhaustive.
type Encoder func(records []any) (any, error)

func encoderFor(f Format) (Encoder, error) {
	switch f {
	case FormatNone:
		return func(records []any) (any, error) { return records, nil }, nil
	case FormatJSON:
		return encodeJSON, nil
	case FormatCSV:
		return encodeCSV, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func encodeJSON(records []any) (any, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return b, nil
}

// encodeCSV flattens each record's top-level fields into a row. Records
// are expected to be map[string]any (the shape Parse callbacks typically
// produce); a record of any other shape becomes a single "value" column.
func encodeCSV(records []any) (any, error) {
	var rows [][]string
	header := csvHeader(records)
	rows = append(rows, header)

	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			rows = append(rows, []string{fmt.Sprintf("%v", rec)})
			continue
		}
		row := make([]string, len(header))
		for i, key := range header {
			if v, ok := m[key]; ok {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func csvHeader(records []any) []string {
	if len(records) == 0 {
		return nil
	}
	m, ok := records[0].(map[string]any)
	if !ok {
		return []string{"value"}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
