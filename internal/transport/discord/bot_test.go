package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

const testBotID = "bot-1"

func newMessageCreate(authorID string, isBot bool) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "msg-1",
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		Author:    &discordgo.User{ID: authorID, Username: "alice", Bot: isBot},
		Content:   "hello",
	}}
}

func TestBuildInbound_FromSelf(t *testing.T) {
	msg := buildInbound(newMessageCreate(testBotID, true), testBotID, nil)
	assert.True(t, msg.FromSelf)
}

func TestBuildInbound_OtherBotIsNotSelf(t *testing.T) {
	m := newMessageCreate("bot-2", true)
	m.Mentions = []*discordgo.User{{ID: testBotID}}

	msg := buildInbound(m, testBotID, nil)
	assert.False(t, msg.FromSelf)
	assert.True(t, msg.MentionsBot)
}

func TestBuildInbound_DMDetection(t *testing.T) {
	m := newMessageCreate("user-1", false)
	m.GuildID = ""

	msg := buildInbound(m, testBotID, nil)
	assert.True(t, msg.IsDM)
}

func TestBuildInbound_Attachments(t *testing.T) {
	m := newMessageCreate("user-1", false)
	m.Attachments = []*discordgo.MessageAttachment{
		{URL: "https://cdn.example.com/a.png", Filename: "a.png"},
	}

	msg := buildInbound(m, testBotID, nil)
	if assert.Len(t, msg.Attachments, 1) {
		assert.Equal(t, "a.png", msg.Attachments[0].Filename)
		assert.Equal(t, "https://cdn.example.com/a.png", msg.Attachments[0].URL)
	}
}
