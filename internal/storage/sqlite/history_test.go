package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *HistoryRepo {
	t.Helper()
	db, err := NewDB(context.Background(), t.TempDir()+"/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHistoryRepo(db)
}

func TestHistoryRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	turns := []core.Turn{
		{Role: core.RoleUser, Parts: []core.Part{core.TextPart(`@alice said "hello"`)}},
		{Role: core.RoleModel, Parts: []core.Part{core.TextPart("Hi alice!")}},
	}
	require.NoError(t, repo.SaveLog(ctx, "42", turns))

	logs, err := repo.LoadLogs(ctx)
	require.NoError(t, err)
	require.Contains(t, logs, "42")

	var got []core.Turn
	require.NoError(t, json.Unmarshal(logs["42"], &got))
	assert.Equal(t, turns, got)
}

func TestHistoryRepo_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	require.NoError(t, repo.SaveLog(ctx, "42", []core.Turn{
		{Role: core.RoleUser, Parts: []core.Part{core.TextPart("first")}},
	}))
	require.NoError(t, repo.SaveLog(ctx, "42", []core.Turn{
		{Role: core.RoleUser, Parts: []core.Part{core.TextPart("second")}},
		{Role: core.RoleModel, Parts: []core.Part{core.TextPart("reply")}},
	}))

	logs, err := repo.LoadLogs(ctx)
	require.NoError(t, err)

	var got []core.Turn
	require.NoError(t, json.Unmarshal(logs["42"], &got))
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Parts[0].Text)
}

func TestHistoryRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	require.NoError(t, repo.SaveLog(ctx, "42", []core.Turn{
		{Role: core.RoleUser, Parts: []core.Part{core.TextPart("hi")}},
	}))
	require.NoError(t, repo.DeleteLog(ctx, "42"))
	// Deleting an absent key is not an error.
	require.NoError(t, repo.DeleteLog(ctx, "42"))

	logs, err := repo.LoadLogs(ctx)
	require.NoError(t, err)
	assert.NotContains(t, logs, "42")
}

func TestHistoryRepo_LoadLooseShape(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	// Rows written by older versions may hold bare-string parts; LoadLogs
	// must hand them back untouched for the caller to normalize.
	loose := `[{"role":"user","parts":["plain string"]}]`
	require.NoError(t, repo.SaveLog(ctx, "7", nil))
	_, err := repo.db.ExecContext(ctx, `UPDATE chat_logs SET turns = ? WHERE channel_id = ?`, loose, "7")
	require.NoError(t, err)

	logs, err := repo.LoadLogs(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, loose, string(logs["7"]))
}
