package chat

import (
	"fmt"
	"regexp"

	"github.com/grigorel/gemcord/internal/attach"
)

// Quoted carries the message a user replied to.
type Quoted struct {
	AuthorName  string
	Text        string
	Attachments []attach.Ref
	FromBot     bool
}

var (
	emojiPattern   = regexp.MustCompile(`<a?:(\w+):\d+>`)
	bracketPattern = regexp.MustCompile(`<[^>]+>`)
)

// Sanitize removes platform markup from raw text. Custom emoji reduce to
// their :name: token; every other angle-bracket token (mentions, channel
// references, timestamps) is stripped.
func Sanitize(text string) string {
	text = emojiPattern.ReplaceAllString(text, ":$1:")
	return bracketPattern.ReplaceAllString(text, "")
}

// BuildQuery formats the single text turn sent to the model for one inbound
// message. Quoted context is appended unless the quote is of the bot itself.
func BuildQuery(authorName, text string, hasAttachments bool, quoted *Quoted) string {
	text = Sanitize(text)

	// Text goes in verbatim between plain double quotes; newlines and inner
	// quotes are part of what the user said.
	var query string
	switch {
	case !hasAttachments:
		query = fmt.Sprintf("@%s said \"%s\"", authorName, text)
	case text == "":
		query = fmt.Sprintf("@%s sent attachments:", authorName)
	default:
		query = fmt.Sprintf("@%s said \"%s\" while sending attachments:", authorName, text)
	}

	if quoted != nil && !quoted.FromBot {
		query = fmt.Sprintf("%s while quoting @%s \"%s\"", query, quoted.AuthorName, Sanitize(quoted.Text))
	}
	return query
}
