package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/grigorel/gemcord/internal/attach"
	"github.com/grigorel/gemcord/internal/config"
	"github.com/grigorel/gemcord/internal/service/chat"
	"github.com/grigorel/gemcord/internal/service/command"
	"github.com/grigorel/gemcord/internal/service/track"
	"github.com/grigorel/gemcord/pkg/log"
)

type Bot struct {
	session *discordgo.Session
	cfg     *config.DiscordConfig
	orch    *chat.Orchestrator
	sender  *Sender

	forget       *command.Forget
	createThread *command.CreateThread

	// baseCtx carries the process logger into gateway handlers, which
	// discordgo invokes without a context.
	baseCtx context.Context
}

func NewBot(
	ctx context.Context,
	cfg *config.DiscordConfig,
	orch *chat.Orchestrator,
	forget *command.Forget,
	tracker *track.Tracker,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		session: session,
		cfg:     cfg,
		orch:    orch,
		sender:  NewSender(session),
		forget:  forget,
		baseCtx: ctx,
	}
	bot.createThread = command.NewCreateThread(bot, tracker)

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting discord bot")
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord open connection: %w", err)
	}
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger := log.FromCtx(b.baseCtx)

	if err := s.UpdateGameStatus(0, b.cfg.Activity); err != nil {
		logger.Warn().Err(err).Msg("failed to set bot activity")
	}

	if err := b.registerCommands(s); err != nil {
		logger.Error().Err(err).Msg("failed to register slash commands")
	}

	logger.Info().Str("username", r.User.Username).Msg("discord bot logged in")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	ctx := b.baseCtx
	botID := s.State.User.ID
	msg := buildInbound(m, botID, b.resolveQuoted(s, m, botID))

	if !b.orch.ShouldRespond(msg) {
		return
	}

	// Typing indicator for immediate feedback while generation runs.
	if err := s.ChannelTyping(m.ChannelID); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("failed to send typing indicator")
	}

	b.orch.Handle(ctx, msg, b.sender)
}

// resolveQuoted loads the replied-to message, fetching it when the gateway
// did not inline it.
func (b *Bot) resolveQuoted(s *discordgo.Session, m *discordgo.MessageCreate, botID string) *chat.Quoted {
	if m.MessageReference == nil {
		return nil
	}

	quoted := m.ReferencedMessage
	if quoted == nil {
		var err error
		quoted, err = s.ChannelMessage(m.MessageReference.ChannelID, m.MessageReference.MessageID)
		if err != nil {
			log.FromCtx(b.baseCtx).Warn().Err(err).Str("message_id", m.MessageReference.MessageID).
				Msg("failed to fetch quoted message")
			return nil
		}
	}
	if quoted == nil || quoted.Author == nil {
		return nil
	}

	return &chat.Quoted{
		AuthorName:  quoted.Author.Username,
		Text:        quoted.ContentWithMentionsReplaced(),
		Attachments: collectRefs(quoted.Attachments),
		FromBot:     quoted.Author.ID == botID,
	}
}

// buildInbound flattens a gateway message into what the pipeline consumes.
// Only the bot's own messages count as FromSelf; other bots' messages go
// through the normal respond filter.
func buildInbound(m *discordgo.MessageCreate, botID string, quoted *chat.Quoted) chat.Inbound {
	return chat.Inbound{
		ChannelID:        m.ChannelID,
		MessageID:        m.ID,
		AuthorName:       m.Author.Username,
		Content:          m.ContentWithMentionsReplaced(),
		FromSelf:         m.Author.ID == botID,
		IsDM:             m.GuildID == "",
		MentionsEveryone: m.MentionEveryone,
		MentionsBot:      isBotMentioned(m.Message, botID),
		Attachments:      collectRefs(m.Attachments),
		Quoted:           quoted,
	}
}

func collectRefs(attachments []*discordgo.MessageAttachment) []attach.Ref {
	if len(attachments) == 0 {
		return nil
	}
	refs := make([]attach.Ref, 0, len(attachments))
	for _, att := range attachments {
		refs = append(refs, attach.Ref{URL: att.URL, Filename: att.Filename})
	}
	return refs
}

func isBotMentioned(msg *discordgo.Message, botID string) bool {
	for _, mention := range msg.Mentions {
		if mention != nil && mention.ID == botID {
			return true
		}
	}
	return false
}
