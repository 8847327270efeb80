package chat

import (
	"context"
	"errors"

	"github.com/grigorel/gemcord/internal/attach"
	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/internal/providers/gemini"
	"github.com/grigorel/gemcord/internal/service/session"
	"github.com/grigorel/gemcord/pkg/log"
)

// User-visible failure replies. Unsupported attachments are an expected
// condition and get their own message, distinct from transport failures.
const (
	replyAttachmentError  = "An error occurred while processing your attachments."
	replyUnsupportedFiles = "Attachments are of unsupported file types."
	replyTooLong          = "The message is too long for me to process."
	replyGenericError     = "An error occurred while processing your message."
)

// Inbound is one platform message, already flattened to what the pipeline
// consumes.
type Inbound struct {
	ChannelID        string
	MessageID        string
	AuthorName       string
	Content          string
	FromSelf         bool
	IsDM             bool
	MentionsEveryone bool
	MentionsBot      bool
	Attachments      []attach.Ref
	Quoted           *Quoted
}

// ReplySender delivers one chunk and returns the sent message's ID so the
// next chunk can chain onto it.
type ReplySender interface {
	Reply(ctx context.Context, channelID, replyToID, content string) (string, error)
}

// Fetcher resolves attachment references into typed binary parts.
type Fetcher interface {
	FetchAll(ctx context.Context, refs []attach.Ref) ([]core.Part, error)
}

// Tracker answers whether a thread is on the always-respond list.
type Tracker interface {
	Contains(id string) bool
}

type Orchestrator struct {
	registry *session.Registry
	fetcher  Fetcher
	history  core.HistoryRepository
	tracker  Tracker

	trackedChannels    map[string]bool
	maxMessageLength   int
	persistAttachments bool
}

func NewOrchestrator(
	registry *session.Registry,
	fetcher Fetcher,
	history core.HistoryRepository,
	tracker Tracker,
	trackedChannels []string,
	maxMessageLength int,
	persistAttachments bool,
) *Orchestrator {
	tracked := make(map[string]bool, len(trackedChannels))
	for _, id := range trackedChannels {
		tracked[id] = true
	}
	return &Orchestrator{
		registry:           registry,
		fetcher:            fetcher,
		history:            history,
		tracker:            tracker,
		trackedChannels:    tracked,
		maxMessageLength:   maxMessageLength,
		persistAttachments: persistAttachments,
	}
}

// ShouldRespond filters inbound messages: never the bot's own or @everyone
// broadcasts, and otherwise only mentions, DMs, tracked channels, and tracked
// threads.
func (o *Orchestrator) ShouldRespond(msg Inbound) bool {
	if msg.FromSelf || msg.MentionsEveryone {
		return false
	}
	return msg.MentionsBot || msg.IsDM || o.trackedChannels[msg.ChannelID] || o.tracker.Contains(msg.ChannelID)
}

// Handle runs the full pipeline for one inbound message: resolve
// attachments, build the query, generate, dispatch the reply chain, persist.
// All failures are mapped to user-visible replies here; nothing propagates.
func (o *Orchestrator) Handle(ctx context.Context, msg Inbound, sender ReplySender) {
	if !o.ShouldRespond(msg) {
		return
	}
	logger := log.FromCtx(ctx)
	logger.Info().Str("channel_id", msg.ChannelID).Str("author", msg.AuthorName).Msg("handling message")

	parts, err := o.fetcher.FetchAll(ctx, msg.Attachments)
	if err != nil {
		logger.Error().Err(err).Str("channel_id", msg.ChannelID).Msg("attachment fetch failed")
		o.sendNotice(ctx, sender, msg, replyAttachmentError)
		return
	}
	if len(msg.Attachments) > 0 && len(parts) == 0 {
		o.sendNotice(ctx, sender, msg, replyUnsupportedFiles)
		return
	}

	// Quoted-message attachments join the outgoing turn. Their fetch is
	// best-effort: a broken quote should not abort the reply.
	if msg.Quoted != nil && !msg.Quoted.FromBot && len(msg.Quoted.Attachments) > 0 {
		quotedParts, err := o.fetcher.FetchAll(ctx, msg.Quoted.Attachments)
		if err != nil {
			logger.Warn().Err(err).Str("channel_id", msg.ChannelID).Msg("quoted attachment fetch failed, continuing without")
		} else {
			parts = append(parts, quotedParts...)
		}
	}

	query := BuildQuery(msg.AuthorName, msg.Content, len(msg.Attachments) > 0, msg.Quoted)
	parts = append(parts, core.TextPart(query))

	text, err := o.registry.AppendAndGenerate(ctx, msg.ChannelID, parts)
	if err != nil {
		o.logGenerationFailure(ctx, msg, query, err)
		o.sendNotice(ctx, sender, msg, replyGenericError)
		return
	}

	o.dispatch(ctx, sender, msg, text)
	o.persist(ctx, msg.ChannelID)
}

// dispatch sends the reply as a chain: each chunk replies to the previously
// sent chunk so long answers render as a connected thread.
func (o *Orchestrator) dispatch(ctx context.Context, sender ReplySender, msg Inbound, text string) {
	logger := log.FromCtx(ctx)
	replyTo := msg.MessageID
	for i, chunk := range Chunk(text, o.maxMessageLength) {
		sentID, err := sender.Reply(ctx, msg.ChannelID, replyTo, chunk)
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Str("channel_id", msg.ChannelID).Msg("failed to send reply chunk")
			if core.KindOf(err) == core.FailureTooLarge {
				o.sendNotice(ctx, sender, msg, replyTooLong)
			} else {
				o.sendNotice(ctx, sender, msg, replyGenericError)
			}
			return
		}
		replyTo = sentID
	}
}

// persist writes the channel's full log after dispatch, even when delivery
// of later chunks failed partially.
func (o *Orchestrator) persist(ctx context.Context, channelID string) {
	turns := o.registry.Log(channelID)
	if !o.persistAttachments {
		turns = session.StripBlobs(turns)
	}
	if err := o.history.SaveLog(ctx, channelID, turns); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("channel_id", channelID).Msg("failed to persist chat log")
	}
}

func (o *Orchestrator) sendNotice(ctx context.Context, sender ReplySender, msg Inbound, notice string) {
	if _, err := sender.Reply(ctx, msg.ChannelID, msg.MessageID, notice); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("channel_id", msg.ChannelID).Msg("failed to send notice")
	}
}

// logGenerationFailure writes the full diagnostic payload: the query, the
// conversation snapshot size, and whatever the API attached to the failure.
func (o *Orchestrator) logGenerationFailure(ctx context.Context, msg Inbound, query string, err error) {
	event := log.FromCtx(ctx).Error().Err(err).
		Str("channel_id", msg.ChannelID).
		Str("query", query).
		Int("history_turns", len(o.registry.Log(msg.ChannelID)))

	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		event = event.Int("status", apiErr.StatusCode).
			RawJSON("candidates", orEmptyJSON(apiErr.Candidates)).
			RawJSON("prompt_feedback", orEmptyJSON(apiErr.PromptFeedback))
	}
	event.Msg("generation failed")
}

func orEmptyJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
