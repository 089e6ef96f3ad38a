package loader

import (
	"strings"
)

// column describes one logical column and the header names accepted for it
type column struct {
	name     string
	aliases  []string
	required bool
}

// Observation table columns. The first alias is the canonical name.
var (
	colSpeciesName = column{name: "species_name", aliases: []string{"species_name", "scientific_name"}, required: true}
	colLocation    = column{name: "location_name", aliases: []string{"location_name", "park_name"}, required: true}
	colCount       = column{name: "observation_count", aliases: []string{"observation_count", "observations"}, required: true}
)

// Species table columns.
var (
	colCategory       = column{name: "category", aliases: []string{"category"}, required: true}
	colScientificName = column{name: "scientific_name", aliases: []string{"scientific_name", "species_name"}, required: true}
	colCommonName     = column{name: "common_name", aliases: []string{"common_name", "common_names"}}
	colStatus         = column{name: "conservation_status", aliases: []string{"conservation_status"}}
)

// utf8BOM is stripped from the first header cell
const utf8BOM = "\ufeff"

// normalizeHeader trims and lower-cases a header cell
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)))
}

// columnIndex maps logical columns to header positions; -1 when absent
type columnIndex map[string]int

// resolveColumns locates each column in header. The first missing required
// column is returned as missing.
func resolveColumns(header []string, columns ...column) (idx columnIndex, missing string) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	idx = make(columnIndex, len(columns))
	for _, c := range columns {
		idx[c.name] = -1
		for _, alias := range c.aliases {
			if pos, ok := positions[alias]; ok {
				idx[c.name] = pos
				break
			}
		}
		if idx[c.name] < 0 && c.required && missing == "" {
			missing = c.name
		}
	}
	return idx, missing
}

// get returns the trimmed field for column name, or "" when the column is absent
func (ci columnIndex) get(record []string, name string) string {
	pos, ok := ci[name]
	if !ok || pos < 0 || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
