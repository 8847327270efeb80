package command

import (
	"context"
	"fmt"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/internal/service/session"
)

// Forget clears a channel's session and persisted log, optionally reseeding
// the bot with a new persona.
type Forget struct {
	registry *session.Registry
	history  core.HistoryRepository
}

func NewForget(registry *session.Registry, history core.HistoryRepository) *Forget {
	return &Forget{registry: registry, history: history}
}

func (c *Forget) Name() string {
	return "forget"
}

func (c *Forget) Description() string {
	return "Forget message history"
}

func (c *Forget) Execute(ctx context.Context, channelID, persona string) (string, error) {
	c.registry.Delete(channelID)
	if err := c.history.DeleteLog(ctx, channelID); err != nil {
		return "", core.NewFailure(core.FailureCommand, fmt.Errorf("clear history: %w", err))
	}

	if persona != "" {
		c.registry.Reset(channelID,
			core.Turn{Role: core.RoleUser, Parts: []core.Part{
				core.TextPart(fmt.Sprintf("Forget what I said earlier! You are %s", persona)),
			}},
			core.Turn{Role: core.RoleModel, Parts: []core.Part{core.TextPart("Ok!")}},
		)
		if err := c.history.SaveLog(ctx, channelID, c.registry.Log(channelID)); err != nil {
			return "", core.NewFailure(core.FailureCommand, fmt.Errorf("save reseeded history: %w", err))
		}
	}

	return "Message history for channel erased.", nil
}
