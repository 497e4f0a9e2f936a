package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/restkit/internal/constants"
)

// renderResult prints a decoded JSON value in the requested format.
func renderResult(out io.Writer, value any, format string) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(value)
	default:
		return renderTable(out, value)
	}
}

func renderTable(out io.Writer, value any) error {
	switch typed := value.(type) {
	case nil:
		_, err := fmt.Fprintln(out, "OK")

		return err
	case []any:
		return renderListTable(out, typed)
	case map[string]any:
		return renderObjectTable(out, typed)
	default:
		_, err := fmt.Fprintln(out, formatCell(typed))

		return err
	}
}

// renderObjectTable prints one row per property, sorted by name.
func renderObjectTable(out io.Writer, object map[string]any) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, key := range sortedKeys(object) {
		_ = table.Append(key, formatCell(object[key]))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderListTable prints one row per element. Objects are split into columns
// taken from the union of their keys, capped at MaxTableColumns.
func renderListTable(out io.Writer, items []any) error {
	columns := listColumns(items)
	table := tablewriter.NewWriter(out)

	if len(columns) == 0 {
		table.Header("Value")

		for _, item := range items {
			_ = table.Append([]string{formatCell(item)})
		}
	} else {
		title := cases.Title(language.English)
		headers := make([]any, 0, len(columns))

		for _, column := range columns {
			headers = append(headers, title.String(strings.ReplaceAll(column, "_", " ")))
		}

		table.Header(headers...)

		for _, item := range items {
			object, _ := item.(map[string]any)
			row := make([]string, 0, len(columns))

			for _, column := range columns {
				cell, ok := object[column]
				if !ok {
					row = append(row, constants.NotAvailable)

					continue
				}

				row = append(row, formatCell(cell))
			}

			_ = table.Append(row)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err = fmt.Fprintf(out, "%d item(s)\n", len(items))

	return err
}

// listColumns returns the sorted union of object keys, or nil when the list
// holds no objects.
func listColumns(items []any) []string {
	seen := make(map[string]struct{})

	for _, item := range items {
		object, ok := item.(map[string]any)
		if !ok {
			continue
		}

		for key := range object {
			seen[key] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	// keep "id" and "name" first when present
	sort.SliceStable(columns, func(i, j int) bool {
		return columnRank(columns[i]) < columnRank(columns[j])
	})

	if len(columns) > constants.MaxTableColumns {
		columns = columns[:constants.MaxTableColumns]
	}

	return columns
}

func columnRank(column string) int {
	switch column {
	case "id":
		return 0
	case "name":
		return 1
	default:
		return 2
	}
}

// formatCell renders nested values as compact JSON and scalars as text.
func formatCell(value any) string {
	switch typed := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case map[string]any, []any:
		data, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(data)
	default:
		return fmt.Sprint(typed)
	}
}

func sortedKeys(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
