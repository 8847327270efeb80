package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ThreadsRepo persists the tracked-thread set.
type ThreadsRepo struct {
	db *sql.DB
}

func NewThreadsRepo(db *sql.DB) *ThreadsRepo {
	return &ThreadsRepo{db: db}
}

func (t *ThreadsRepo) AddThread(ctx context.Context, threadID string) error {
	query := `INSERT INTO tracked_threads (thread_id) VALUES (?) ON CONFLICT(thread_id) DO NOTHING`
	if _, err := t.db.ExecContext(ctx, query, threadID); err != nil {
		return fmt.Errorf("failed to insert tracked thread: %w", err)
	}
	return nil
}

func (t *ThreadsRepo) ListThreads(ctx context.Context) ([]string, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT thread_id FROM tracked_threads ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked threads: %w", err)
	}
	defer rows.Close()

	var threads []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tracked thread: %w", err)
		}
		threads = append(threads, id)
	}
	return threads, rows.Err()
}
