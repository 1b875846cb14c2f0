package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
)

const taskColumns = `id, owner_id, project_id, title, description, status,
		due_at, estimated_min, priority, ai_score, tags, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo on SQLite.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := encodeJSON(tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.OwnerID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(t.Status),
		nullableTimeToString(t.DueAt),
		nullableIntToValue(t.EstimatedMin),
		t.Priority,
		nullableFloatToValue(t.AIScore),
		tagsJSON,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListOpen(ctx context.Context, ownerID, projectID string) ([]*domain.Task, error) {
	return r.list(ctx, ownerID, projectID, true)
}

func (r *SQLiteTaskRepo) List(ctx context.Context, ownerID, projectID string) ([]*domain.Task, error) {
	return r.list(ctx, ownerID, projectID, false)
}

func (r *SQLiteTaskRepo) list(ctx context.Context, ownerID, projectID string, openOnly bool) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	args := []any{ownerID}
	if projectID != "" {
		query += ` AND project_id = ?`
		args = append(args, projectID)
	}
	if openOnly {
		query += ` AND status != 'done'`
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) UpdateScore(ctx context.Context, id string, score float64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET ai_score = ?, updated_at = ? WHERE id = ?`,
		score, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("updating task score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (*domain.Task, error) {
	var (
		t         domain.Task
		status    string
		dueAt     sql.NullString
		estimate  sql.NullInt64
		aiScore   sql.NullFloat64
		tagsJSON  string
		createdAt string
		updatedAt string
	)
	err := s.Scan(&t.ID, &t.OwnerID, &t.ProjectID, &t.Title, &t.Description, &status,
		&dueAt, &estimate, &t.Priority, &aiScore, &tagsJSON, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(status)
	t.DueAt = parseNullableTime(dueAt)
	t.EstimatedMin = intPtrFromNull(estimate)
	t.AIScore = floatPtrFromNull(aiScore)
	if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags of task %s: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
