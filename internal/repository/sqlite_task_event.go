package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// SQLiteTaskEventRepo implements TaskEventRepo on SQLite. Events are
// append-only.
type SQLiteTaskEventRepo struct {
	db db.DBTX
}

func NewSQLiteTaskEventRepo(db db.DBTX) *SQLiteTaskEventRepo {
	return &SQLiteTaskEventRepo{db: db}
}

func (r *SQLiteTaskEventRepo) Append(ctx context.Context, e *domain.TaskEvent) error {
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	payloadJSON, err := encodeJSON(payload)
	if err != nil {
		return fmt.Errorf("encoding event payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO task_events (id, task_id, type, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.TaskID, string(e.Type), payloadJSON, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting task event: %w", err)
	}
	return nil
}

func (r *SQLiteTaskEventRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, type, payload, created_at FROM task_events
		WHERE task_id = ? ORDER BY created_at, rowid`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task events: %w", err)
	}
	defer rows.Close()

	var events []*domain.TaskEvent
	for rows.Next() {
		var (
			e           domain.TaskEvent
			typ         string
			payloadJSON string
			createdAt   string
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &typ, &payloadJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task event: %w", err)
		}
		e.Type = domain.TaskEventType(typ)
		if err := json.Unmarshal([]byte(payloadJSON), &e.Payload); err != nil {
			return nil, fmt.Errorf("decoding payload of event %s: %w", e.ID, err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task events: %w", err)
	}
	return events, nil
}
