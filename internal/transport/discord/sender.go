package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/grigorel/gemcord/internal/core"
)

// Discord rejects messages over its length limit with this JSON error code.
const errCodeInvalidFormBody = 50035

// replySession is the slice of discordgo.Session the sender needs.
type replySession interface {
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sender delivers reply chunks, chaining each onto the previous one.
type Sender struct {
	session replySession
}

func NewSender(session replySession) *Sender {
	return &Sender{session: session}
}

func (s *Sender) Reply(ctx context.Context, channelID, replyToID, content string) (string, error) {
	msg, err := s.session.ChannelMessageSendReply(channelID, content, &discordgo.MessageReference{
		ChannelID: channelID,
		MessageID: replyToID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", mapSendError(err)
	}
	return msg.ID, nil
}

// mapSendError tags oversized-message rejections so the orchestrator can show
// its dedicated reply instead of the generic one.
func mapSendError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == errCodeInvalidFormBody {
		return core.NewFailure(core.FailureTooLarge, err)
	}
	return core.NewFailure(core.FailureTransport, err)
}
