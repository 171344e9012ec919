// Package seekdb talks to a seekdb instance over the MySQL protocol and
// builds the SQL its vector, full-text and AI features use.
package seekdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/config"
)

// Executor runs a statement and reports the outcome as a result envelope.
// Tool handlers depend on this interface so they can be tested without a
// live database.
type Executor interface {
	Execute(ctx context.Context, query string) *Result
}

// Result is the envelope every seekdb tool returns. Data is nil for
// statements that produce no rows.
type Result struct {
	SQL     string     `json:"sql"`
	Success bool       `json:"success"`
	Data    [][]string `json:"data"`
	Error   *string    `json:"error"`
}

func errorResult(query string, err error) *Result {
	msg := fmt.Sprintf("[Error]: %v", err)
	return &Result{SQL: query, Error: &msg}
}

// Client wraps a database/sql pool connected to seekdb.
type Client struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewClient opens a connection pool for the given configuration. The
// connection is verified lazily on first use.
func NewClient(cfg config.SeekDB, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open seekdb connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	return &Client{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// returnsRows reports whether a statement produces a result set.
func returnsRows(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "SHOW", "DESC", "DESCRIBE", "EXPLAIN", "WITH", "CALL"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

// Execute runs a statement and folds any failure into the result envelope
// instead of returning a Go error, so tool output always carries the SQL
// that was attempted.
func (c *Client) Execute(ctx context.Context, query string) *Result {
	c.logger.Debug("executing sql", "sql", query)

	if !returnsRows(query) {
		if _, err := c.db.ExecContext(ctx, query); err != nil {
			c.logger.Error("sql failed", "sql", query, "error", err)
			return errorResult(query, err)
		}
		return &Result{SQL: query, Success: true}
	}

	rows, err := c.Query(ctx, query)
	if err != nil {
		c.logger.Error("sql failed", "sql", query, "error", err)
		return errorResult(query, err)
	}
	return &Result{SQL: query, Success: true, Data: rows}
}

// Query runs a row-returning statement and stringifies every cell. NULL
// cells render as "NULL".
func (c *Client) Query(ctx context.Context, query string) ([][]string, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
