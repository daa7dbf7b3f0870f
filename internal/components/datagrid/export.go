package datagrid

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportFormats lists the supported export formats
var ExportFormats = []string{FormatCSV, FormatJSON, FormatYAML}

// Export writes rows in format using the visible columns. CSV gets a
// header row of column headers; JSON and YAML get one object per row keyed
// by column key.
func Export[T any](w io.Writer, format string, columns []Column[T], rows []T, hidden map[string]bool) error {
	var cols []Column[T]
	for _, c := range columns {
		if !c.Hidden && !hidden[c.Key] {
			cols = append(cols, c)
		}
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		return exportCSV(w, cols, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records(cols, rows)); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlRecords(cols, rows)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func exportCSV[T any](w io.Writer, cols []Column[T], rows []T) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = c.value(row)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func records[T any](cols []Column[T], rows []T) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(cols))
		for _, c := range cols {
			rec[c.Key] = c.value(row)
		}
		out = append(out, rec)
	}
	return out
}

// yamlRecords keeps column order, which maps would lose
func yamlRecords[T any](cols []Column[T], rows []T) []*yaml.Node {
	out := make([]*yaml.Node, 0, len(rows))
	for _, row := range rows {
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range cols {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: c.Key},
				&yaml.Node{Kind: yaml.ScalarNode, Value: c.value(row), Style: yaml.DoubleQuotedStyle},
			)
		}
		out = append(out, n)
	}
	return out
}
