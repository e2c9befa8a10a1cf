// Package query turns chat input into SQL and runs it against an
// in-memory projection of the loaded dataset.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// TableName is the SQL name the loaded dataset is exposed under.
const TableName = "data"

// DefaultQueryTimeout bounds a single query execution.
const DefaultQueryTimeout = 5 * time.Second

// Executor runs read-only SQL and returns tabular results.
type Executor interface {
	Execute(ctx context.Context, sqlText string) (*model.Result, error)
	Close() error
}

// SQLiteExecutor loads a dataset into an in-memory SQLite database and
// executes SELECT statements against it.
type SQLiteExecutor struct {
	db *sql.DB
}

// NewSQLiteExecutor creates the in-memory database and loads the dataset.
func NewSQLiteExecutor(ds *model.Dataset) (*SQLiteExecutor, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A :memory: database exists per connection; more than one
	// connection would see different tables.
	db.SetMaxOpenConns(1)

	e := &SQLiteExecutor{db: db}
	if err := e.loadDataset(ds); err != nil {
		db.Close()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return e, nil
}

// Close closes the database connection.
func (e *SQLiteExecutor) Close() error {
	return e.db.Close()
}

func (e *SQLiteExecutor) loadDataset(ds *model.Dataset) error {
	cols := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), sqliteType(c.Type))
	}
	schema := fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(cols, ", "))
	if _, err := e.db.Exec(schema); err != nil {
		return err
	}

	tx, err := e.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ds.Columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", TableName, placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, v := range row {
			// Empty cells become NULL so aggregates skip them.
			if strings.TrimSpace(v) == "" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Execute runs a SELECT statement. Anything that could mutate the
// database is rejected before it reaches SQLite.
func (e *SQLiteExecutor) Execute(ctx context.Context, sqlText string) (*model.Result, error) {
	if err := validateReadOnly(sqlText); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &model.Result{
		Columns: columns,
		SQL:     sqlText,
	}

	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// forbiddenKeywords are statement types that have no business in a
// read-only analytics session.
var forbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create",
	"attach", "detach", "pragma", "vacuum", "reindex",
}

// validateReadOnly rejects anything that is not a single SELECT (or
// WITH ... SELECT) statement.
func validateReadOnly(sqlText string) error {
	trimmed := strings.TrimSpace(sqlText)
	if trimmed == "" {
		return fmt.Errorf("empty query")
	}

	// Reject multi-statement input; a trailing semicolon is allowed.
	if i := strings.Index(trimmed, ";"); i >= 0 && strings.TrimSpace(trimmed[i+1:]) != "" {
		return fmt.Errorf("only a single statement is allowed")
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return fmt.Errorf("only SELECT queries are allowed")
	}
	for _, kw := range forbiddenKeywords {
		if containsWord(lower, kw) {
			return fmt.Errorf("statement contains forbidden keyword %q", kw)
		}
	}
	return nil
}

// containsWord reports whether s contains w as a whole word.
func containsWord(s, w string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(w)
		before := start == 0 || !isWordByte(s[start-1])
		after := end == len(s) || !isWordByte(s[end])
		if before && after {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// quoteIdent quotes a SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqliteType(t model.ColumnType) string {
	switch t {
	case model.ColInteger:
		return "INTEGER"
	case model.ColReal:
		return "REAL"
	default:
		return "TEXT"
	}
}
