// Package dataset loads tabular data files and computes column summaries.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// inferSampleSize caps how many rows type inference examines.
const inferSampleSize = 1000

// timestampLayouts are the accepted timestamp formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// Load reads a CSV file into a Dataset. The first row is taken as the
// header; column types are inferred from a sample of the data rows.
func Load(path string) (*model.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	header := records[0]
	rows := records[1:]

	// Ragged rows are padded or truncated rather than rejected; messy
	// exports are the common case, not the exception.
	for i, row := range rows {
		if len(row) != len(header) {
			fixed := make([]string, len(header))
			copy(fixed, row)
			rows[i] = fixed
		}
	}

	columns := make([]model.Column, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		columns[i] = model.Column{Name: name, Type: inferType(rows, i)}
	}

	d := &model.Dataset{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		Columns: columns,
		Rows:    rows,
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", path, err)
	}
	return d, nil
}

// inferType examines a sample of column values and returns the
// narrowest type every non-empty value satisfies.
func inferType(rows [][]string, col int) model.ColumnType {
	sample := len(rows)
	if sample > inferSampleSize {
		sample = inferSampleSize
	}

	seen := 0
	isInt, isReal, isTime := true, true, true
	for _, row := range rows[:sample] {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		seen++
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isReal {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isReal = false
			}
		}
		if isTime && !parsesAsTimestamp(v) {
			isTime = false
		}
		if !isInt && !isReal && !isTime {
			return model.ColText
		}
	}
	if seen == 0 {
		return model.ColText
	}

	switch {
	case isInt:
		return model.ColInteger
	case isReal:
		return model.ColReal
	case isTime:
		return model.ColTimestamp
	}
	return model.ColText
}

func parsesAsTimestamp(v string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
