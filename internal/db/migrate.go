package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open; ALTER TABLE additions that already exist are skipped.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		owner_id      TEXT NOT NULL,
		project_id    TEXT NOT NULL,
		title         TEXT NOT NULL CHECK(length(trim(title)) > 0),
		description   TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'todo'
		              CHECK(status IN ('todo','in_progress','done','blocked')),
		due_at        TEXT,
		estimated_min INTEGER CHECK(estimated_min IS NULL OR estimated_min > 0),
		priority      INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 5),
		ai_score      REAL CHECK(ai_score IS NULL OR (ai_score >= 0 AND ai_score <= 1)),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_status ON tasks(owner_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_project ON tasks(owner_id, project_id)`,

	`CREATE TABLE IF NOT EXISTS task_events (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		type       TEXT NOT NULL
		           CHECK(type IN ('created','updated','status_changed','prioritized','deleted')),
		payload    TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_task_events_task ON task_events(task_id, created_at)`,

	// Tags were added after the first release; stored as a JSON array.
	`ALTER TABLE tasks ADD COLUMN tags TEXT NOT NULL DEFAULT '[]'`,
}
