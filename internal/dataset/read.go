package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ratingsSummaryColumn is the nested sub-object some ratings exports wrap
// their aggregates in. It is flattened into top-level columns on read.
const ratingsSummaryColumn = "ratings_summary"

// ReadCSV loads a headered CSV file into a table. Cell values are kept as
// strings; short rows are padded with empty cells.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s: missing header row", path)
	}

	header := records[0]
	table := &Table{Columns: append([]string(nil), header...)}
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadRatings loads a JSON array of rating objects. Entries may be flat or
// carry a nested ratings_summary sub-object; nested aggregates are flattened
// into top-level columns. A malformed top-level structure is a fatal error.
func ReadRatings(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings %s: %w", path, err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse ratings %s: %w", path, err)
	}

	table := &Table{}
	for _, entry := range entries {
		row := make(Row, len(entry))
		for key, value := range entry {
			if key == ratingsSummaryColumn {
				if nested, ok := value.(map[string]any); ok {
					for nkey, nvalue := range nested {
						row[nkey] = nvalue
					}
					continue
				}
			}
			row[key] = value
		}
		for _, key := range sortedKeys(row) {
			table.AddColumn(key)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Deterministic column discovery regardless of map iteration order.
func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
