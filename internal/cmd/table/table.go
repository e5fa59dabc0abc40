// Package table converts command results into rows for table output.
package table

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentstation/nbctx/pkg/codec"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// maxCell bounds rendered values in a cell.
const maxCell = 60

// PathsToTableData lists file paths, one per row, with their object name.
func PathsToTableData(names, paths []string) Data {
	rows := make([][]string, 0, len(paths))
	for i, path := range paths {
		name := "-"
		if i < len(names) {
			name = names[i]
		}
		rows = append(rows, []string{name, path})
	}
	return Data{
		Headers: []string{"Name", "Path"},
		Rows:    rows,
	}
}

// FilesToTableData lists file paths, naming each row after the file stem.
func FilesToTableData(paths []string) Data {
	names := make([]string, len(paths))
	for i, path := range paths {
		base := filepath.Base(path)
		names[i] = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return PathsToTableData(names, paths)
}

// ContextToTableData shows the top-level keys of a context, one row
// each. Non-mapping contexts become a single row.
func ContextToTableData(value codec.Value) Data {
	data := Data{
		Headers:         []string{"Key", "Value"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}

	m, ok := value.(map[string]any)
	if !ok {
		data.Rows = append(data.Rows, []string{"-", Cell(value)})
		return data
	}
	for _, key := range codec.SortedKeys(m) {
		data.Rows = append(data.Rows, []string{key, Cell(m[key])})
	}
	return data
}

// Cell renders a value on a single line. Nested values are shown as
// compact JSON.
func Cell(value codec.Value) string {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case nil:
		s = "-"
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			s = fmt.Sprint(v)
		} else {
			s = string(out)
		}
	default:
		s = fmt.Sprint(v)
	}
	if len(s) > maxCell {
		s = s[:maxCell-3] + "..."
	}
	return s
}
