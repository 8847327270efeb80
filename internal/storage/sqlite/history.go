package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/pkg/log"
)

// HistoryRepo stores one serialized conversation log per channel. The upsert
// is the atomic per-key read-modify-write the rest of the system assumes.
type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (h *HistoryRepo) SaveLog(ctx context.Context, channelID string, turns []core.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal turns: %w", err)
	}

	query := `INSERT INTO chat_logs (channel_id, turns, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(channel_id) DO UPDATE SET turns = excluded.turns, updated_at = CURRENT_TIMESTAMP`
	if _, err := h.db.ExecContext(ctx, query, channelID, string(data)); err != nil {
		return fmt.Errorf("failed to upsert chat log: %w", err)
	}
	return nil
}

// LoadLogs returns every channel's log as raw JSON. Decoding is left to the
// caller because rows written by earlier versions may use looser shapes.
func (h *HistoryRepo) LoadLogs(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT channel_id, turns FROM chat_logs`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat logs: %w", err)
	}
	defer rows.Close()

	logs := make(map[string]json.RawMessage)
	for rows.Next() {
		var channelID, turns string
		if err := rows.Scan(&channelID, &turns); err != nil {
			return nil, fmt.Errorf("failed to scan chat log: %w", err)
		}
		logs[channelID] = json.RawMessage(turns)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("channels", len(logs)).Msg("loaded chat logs")
	return logs, nil
}

func (h *HistoryRepo) DeleteLog(ctx context.Context, channelID string) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM chat_logs WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("failed to delete chat log: %w", err)
	}
	return nil
}
