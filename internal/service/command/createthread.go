package command

import (
	"context"
	"fmt"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/internal/service/track"
)

// ThreadCreator makes a new thread under a channel and returns its ID. The
// transport supplies the platform call; the command owns the tracking.
type ThreadCreator interface {
	CreateThread(ctx context.Context, channelID, name string) (string, error)
}

// CreateThread creates a thread the bot responds to unconditionally.
type CreateThread struct {
	creator ThreadCreator
	tracker *track.Tracker
}

func NewCreateThread(creator ThreadCreator, tracker *track.Tracker) *CreateThread {
	return &CreateThread{creator: creator, tracker: tracker}
}

func (c *CreateThread) Name() string {
	return "createthread"
}

func (c *CreateThread) Description() string {
	return "Create a thread in which bot will respond to every message."
}

func (c *CreateThread) Execute(ctx context.Context, channelID, name string) (string, error) {
	threadID, err := c.creator.CreateThread(ctx, channelID, name)
	if err != nil {
		return "", core.NewFailure(core.FailureCommand, fmt.Errorf("create thread: %w", err))
	}

	if err := c.tracker.Add(ctx, threadID); err != nil {
		return "", core.NewFailure(core.FailureCommand, err)
	}

	return fmt.Sprintf("Thread %s created!", name), nil
}
