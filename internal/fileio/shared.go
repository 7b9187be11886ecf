package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table is one parsed input table: the header row plus the data rows
// keyed by header. Headers are kept even when no data rows follow, so
// a header-only file still fails its required-column check instead of
// passing as an empty result.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ReadTable picks a parser by file extension and returns the table.
// headerRow is 1-based.
func ReadTable(r io.Reader, filename string, headerRow int) (Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return ReadCSV(r, headerRow)
	default:
		return Table{}, fmt.Errorf("unsupported file: %s", filename)
	}
}

// RequireColumns verifies the table carries every named column. A
// missing column is a structural failure, not a row defect.
func RequireColumns(t Table, source string, columns ...string) error {
	have := make(map[string]struct{}, len(t.Headers))
	for _, h := range t.Headers {
		have[h] = struct{}{}
	}
	for _, col := range columns {
		if _, ok := have[col]; !ok {
			return fmt.Errorf("%s: required column %q not found", source, col)
		}
	}
	return nil
}

// pickHeader takes the header row and substitutes "Column N" for blanks.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts row slices to maps keyed by header, skipping rows
// that are entirely empty.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := map[string]string{}
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
		}
		empty := true
		for _, v := range m {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
