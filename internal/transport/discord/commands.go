package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/grigorel/gemcord/pkg/log"
)

// Threads created by /createthread auto-archive after an hour of silence.
const threadAutoArchiveMinutes = 60

func (b *Bot) registerCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        b.forget.Name(),
			Description: b.forget.Description(),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "persona",
					Description: "Persona of bot",
					Required:    false,
				},
			},
		},
		{
			Name:        b.createThread.Name(),
			Description: b.createThread.Description(),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Thread name",
					Required:    true,
				},
			},
		},
	}

	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", commands)
	return err
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	ctx := b.baseCtx
	logger := log.FromCtx(ctx)
	data := i.ApplicationCommandData()

	var reply string
	var err error
	switch data.Name {
	case b.forget.Name():
		persona := ""
		for _, opt := range data.Options {
			if opt.Name == "persona" {
				persona = opt.StringValue()
			}
		}
		reply, err = b.forget.Execute(ctx, i.ChannelID, persona)
		if err != nil {
			reply = "An error occurred while processing your command."
		}
	case b.createThread.Name():
		name := ""
		for _, opt := range data.Options {
			if opt.Name == "name" {
				name = opt.StringValue()
			}
		}
		reply, err = b.createThread.Execute(ctx, i.ChannelID, name)
		if err != nil {
			reply = "Error creating thread!"
		}
	default:
		return
	}

	// Command failures reply with a short message, never propagate.
	if err != nil {
		logger.Error().Err(err).Str("command", data.Name).Str("channel_id", i.ChannelID).Msg("command failed")
	}

	respErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: reply},
	})
	if respErr != nil {
		logger.Error().Err(respErr).Str("command", data.Name).Msg("failed to respond to interaction")
	}
}

// CreateThread implements command.ThreadCreator on top of the gateway
// session. It fails when the invoking channel cannot host threads.
func (b *Bot) CreateThread(ctx context.Context, channelID, name string) (string, error) {
	thread, err := b.session.ThreadStart(channelID, name, discordgo.ChannelTypeGuildPublicThread,
		threadAutoArchiveMinutes, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("thread start: %w", err)
	}
	return thread.ID, nil
}
