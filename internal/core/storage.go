package core

import (
	"context"
	"encoding/json"
)

// HistoryRepository is the durable per-channel conversation log store.
// Logs load as raw JSON so callers can normalize loosely-shaped data that
// earlier versions may have written.
type HistoryRepository interface {
	SaveLog(ctx context.Context, channelID string, turns []Turn) error
	LoadLogs(ctx context.Context) (map[string]json.RawMessage, error)
	DeleteLog(ctx context.Context, channelID string) error
}

// ThreadsRepository persists the set of thread IDs the bot always responds in.
type ThreadsRepository interface {
	AddThread(ctx context.Context, threadID string) error
	ListThreads(ctx context.Context) ([]string, error)
}
