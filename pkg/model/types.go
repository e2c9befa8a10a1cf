package model

import (
	"fmt"
	"time"
)

// ColumnType categorizes the inferred type of a dataset column
type ColumnType string

const (
	ColText      ColumnType = "text"
	ColInteger   ColumnType = "integer"
	ColReal      ColumnType = "real"
	ColTimestamp ColumnType = "timestamp"
)

// IsValid returns true if the column type is a recognized value
func (t ColumnType) IsValid() bool {
	switch t {
	case ColText, ColInteger, ColReal, ColTimestamp:
		return true
	}
	return false
}

// IsNumeric returns true if values of this type can be charted on a value axis
func (t ColumnType) IsNumeric() bool {
	return t == ColInteger || t == ColReal
}

// Column describes one column of a loaded dataset
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// ColumnStats holds summary statistics for a single column.
// Numeric fields are zero for non-numeric columns.
type ColumnStats struct {
	Count    int     `json:"count"`
	Distinct int     `json:"distinct"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Mean     float64 `json:"mean,omitempty"`
	StdDev   float64 `json:"std_dev,omitempty"`
}

// Dataset is a loaded tabular data source
type Dataset struct {
	Name    string                 `json:"name"`
	Path    string                 `json:"path"`
	Columns []Column               `json:"columns"`
	Rows    [][]string             `json:"-"`
	Stats   map[string]ColumnStats `json:"stats,omitempty"`
}

// Validate checks that the dataset is structurally sound
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset has no columns")
	}
	for i, c := range d.Columns {
		if c.Name == "" {
			return fmt.Errorf("column %d has an empty name", i)
		}
		if !c.Type.IsValid() {
			return fmt.Errorf("column %q has invalid type: %s", c.Name, c.Type)
		}
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("row %d has %d fields, want %d", i, len(row), len(d.Columns))
		}
	}
	return nil
}

// ColumnIndex returns the index of the named column, or -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Result is the outcome of executing a query
type Result struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	SQL      string     `json:"sql"`
	Duration time.Duration
}

// ChartType categorizes how a result is visualized
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartHistogram ChartType = "histogram"
	ChartLine      ChartType = "line"
)

// IsValid returns true if the chart type is a recognized value
func (t ChartType) IsValid() bool {
	switch t {
	case ChartBar, ChartHistogram, ChartLine:
		return true
	}
	return false
}

// ChartSpec describes how to draw one chart from a result
type ChartSpec struct {
	Type     ChartType `json:"type"`
	Title    string    `json:"title"`
	LabelCol string    `json:"label_col"`
	ValueCol string    `json:"value_col"`
}

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// IsValid returns true if the role is a recognized value
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single chat turn
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           Role      `json:"role"`
	Text           string    `json:"text"`
	SQL            string    `json:"sql,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks the message fields
func (m *Message) Validate() error {
	if !m.Role.IsValid() {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	if m.Text == "" {
		return fmt.Errorf("message text cannot be empty")
	}
	return nil
}

// Conversation groups related messages
type Conversation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Dataset   string    `json:"dataset"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
