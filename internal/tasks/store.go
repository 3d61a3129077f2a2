package tasks

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists tasks in SQLite (WAL mode).
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the task database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'inbox',
		assignee_id  TEXT NOT NULL DEFAULT '',
		priority     TEXT NOT NULL DEFAULT 'normal',
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL,
		completed_at INTEGER,
		tags         TEXT NOT NULL DEFAULT '[]',
		metadata     TEXT NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_session
		ON tasks(json_extract(metadata, '$.sessionId'));
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a fresh task id.
func NewID() string {
	return uuid.NewString()
}

// Create inserts a new task. A missing id is generated.
func (s *Store) Create(t *Task) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	tags, meta, err := encodeJSONCols(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO tasks (id, title, description, status, assignee_id, priority,
			created_at, updated_at, completed_at, tags, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status), t.AssigneeID, t.Priority,
		toMillis(t.CreatedAt), toMillis(t.UpdatedAt), toMillisPtr(t.CompletedAt),
		tags, meta,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update rewrites every mutable column of an existing task.
func (s *Store) Update(t *Task) error {
	tags, meta, err := encodeJSONCols(t)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE tasks SET title = ?, description = ?, status = ?, assignee_id = ?,
			priority = ?, updated_at = ?, completed_at = ?, tags = ?, metadata = ?
		WHERE id = ?`,
		t.Title, t.Description, string(t.Status), t.AssigneeID, t.Priority,
		toMillis(t.UpdatedAt), toMillisPtr(t.CompletedAt), tags, meta, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %q not found", t.ID)
	}
	return nil
}

// Get returns the task with the given id, or sql.ErrNoRows.
func (s *Store) Get(id string) (*Task, error) {
	row := s.db.QueryRow(selectCols+" WHERE id = ?", id)
	return scanTask(row)
}

// FindBySessionID returns the task whose metadata carries the given session
// id, or nil if none exists.
func (s *Store) FindBySessionID(sessionID string) (*Task, error) {
	row := s.db.QueryRow(
		selectCols+" WHERE json_extract(metadata, '$.sessionId') = ? ORDER BY created_at LIMIT 1",
		sessionID,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// List returns all tasks, most recently updated first.
func (s *Store) List() ([]*Task, error) {
	rows, err := s.db.Query(selectCols + " ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes a task by id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %q not found", id)
	}
	return nil
}

const selectCols = `SELECT id, title, description, status, assignee_id, priority,
	created_at, updated_at, completed_at, tags, metadata FROM tasks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var status, tags, meta string
	var createdAt, updatedAt int64
	var completedAt sql.NullInt64
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.AssigneeID,
		&t.Priority, &createdAt, &updatedAt, &completedAt, &tags, &meta)
	if err != nil {
		return nil, err
	}
	t.Status = Status(status)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	if completedAt.Valid {
		c := fromMillis(completedAt.Int64)
		t.CompletedAt = &c
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for task %s: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(meta), &t.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata for task %s: %w", t.ID, err)
	}
	return &t, nil
}

func encodeJSONCols(t *Task) (tags string, meta string, err error) {
	tagList := t.Tags
	if tagList == nil {
		tagList = []string{}
	}
	tagBytes, err := json.Marshal(tagList)
	if err != nil {
		return "", "", fmt.Errorf("encode tags: %w", err)
	}
	metaBytes, err := json.Marshal(t.Metadata)
	if err != nil {
		return "", "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(tagBytes), string(metaBytes), nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func toMillisPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
