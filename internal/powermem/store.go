// Package powermem implements a local, file-backed memory store for
// agents. Memories are scoped by user, agent and run identifiers and
// persisted in SQLite.
package powermem

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no memory exists for the given id.
var ErrNotFound = errors.New("memory not found")

// ErrScopeRequired is returned when a scoped operation is called without
// any of user_id, agent_id or run_id.
var ErrScopeRequired = errors.New("at least one of user_id, agent_id or run_id is required")

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	agent_id   TEXT NOT NULL DEFAULT '',
	run_id     TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	metadata   TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_scope ON memories (user_id, agent_id, run_id);
`

// Scope narrows memory operations to a user, agent and/or run.
type Scope struct {
	UserID  string
	AgentID string
	RunID   string
}

// Empty reports whether no scope field is set.
func (s Scope) Empty() bool {
	return s.UserID == "" && s.AgentID == "" && s.RunID == ""
}

// Memory is a single stored memory.
type Memory struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	AgentID   string         `json:"agent_id,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	Content   string         `json:"memory"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store is a SQLite-backed memory store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the store at path and ensures the schema exists.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	// The driver serializes writes; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init memory store schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a new memory under the given scope and returns it.
func (s *Store) Add(ctx context.Context, content string, scope Scope, metadata map[string]any) (*Memory, error) {
	if content == "" {
		return nil, errors.New("content cannot be empty")
	}
	if scope.Empty() {
		return nil, ErrScopeRequired
	}
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	m := &Memory{
		ID:        uuid.NewString(),
		UserID:    scope.UserID,
		AgentID:   scope.AgentID,
		RunID:     scope.RunID,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO memories (id, user_id, agent_id, run_id, content, metadata, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.UserID, m.AgentID, m.RunID, m.Content, meta, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("add memory: %w", err)
	}
	s.logger.Debug("memory added", "id", m.ID, "user_id", m.UserID, "agent_id", m.AgentID, "run_id", m.RunID)
	return m, nil
}

// Get returns the memory with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Memory, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, agent_id, run_id, content, metadata, created_at, updated_at FROM memories WHERE id = ?", id)
	m, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

// Search returns memories in scope whose content matches the query,
// newest first. Matching is a case-insensitive substring match.
func (s *Store) Search(ctx context.Context, query string, scope Scope, limit int) ([]Memory, error) {
	if scope.Empty() {
		return nil, ErrScopeRequired
	}
	if limit <= 0 {
		limit = 10
	}
	conds, args := scopeConds(scope)
	conds = append(conds, `content LIKE ? ESCAPE '\'`)
	args = append(args, "%"+escapeLike(query)+"%", limit)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, agent_id, run_id, content, metadata, created_at, updated_at FROM memories WHERE "+
			strings.Join(conds, " AND ")+" ORDER BY updated_at DESC LIMIT ?",
		args...)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	return collectMemories(rows)
}

// Update replaces the content, and optionally the metadata, of the memory
// with the given id.
func (s *Store) Update(ctx context.Context, id, content string, metadata map[string]any) (*Memory, error) {
	if content == "" {
		return nil, errors.New("content cannot be empty")
	}
	now := time.Now().UTC()
	var res sql.Result
	var err error
	if metadata != nil {
		var meta sql.NullString
		meta, err = marshalMetadata(metadata)
		if err != nil {
			return nil, err
		}
		res, err = s.db.ExecContext(ctx,
			"UPDATE memories SET content = ?, metadata = ?, updated_at = ? WHERE id = ?",
			content, meta, now, id)
	} else {
		res, err = s.db.ExecContext(ctx,
			"UPDATE memories SET content = ?, updated_at = ? WHERE id = ?",
			content, now, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the memory with the given id, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM memories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every memory in scope and returns how many were
// deleted.
func (s *Store) DeleteAll(ctx context.Context, scope Scope) (int64, error) {
	if scope.Empty() {
		return 0, ErrScopeRequired
	}
	conds, args := scopeConds(scope)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM memories WHERE "+strings.Join(conds, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("delete memories: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// List returns memories in scope, newest first.
func (s *Store) List(ctx context.Context, scope Scope, limit, offset int) ([]Memory, error) {
	if scope.Empty() {
		return nil, ErrScopeRequired
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	conds, args := scopeConds(scope)
	args = append(args, limit, offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, agent_id, run_id, content, metadata, created_at, updated_at FROM memories WHERE "+
			strings.Join(conds, " AND ")+" ORDER BY updated_at DESC LIMIT ? OFFSET ?",
		args...)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return collectMemories(rows)
}

func scopeConds(scope Scope) ([]string, []any) {
	var conds []string
	var args []any
	if scope.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, scope.UserID)
	}
	if scope.AgentID != "" {
		conds = append(conds, "agent_id = ?")
		args = append(args, scope.AgentID)
	}
	if scope.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, scope.RunID)
	}
	return conds, args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func marshalMetadata(metadata map[string]any) (sql.NullString, error) {
	if metadata == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal metadata: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (*Memory, error) {
	var m Memory
	var meta sql.NullString
	if err := row.Scan(&m.ID, &m.UserID, &m.AgentID, &m.RunID, &m.Content, &meta, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if meta.Valid {
		if err := json.Unmarshal([]byte(meta.String), &m.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &m, nil
}

func collectMemories(rows *sql.Rows) ([]Memory, error) {
	defer rows.Close()
	var out []Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
