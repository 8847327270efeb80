package core

const (
	BotName       = "gemcord"
	BotUserAgent  = "gemcord/0.1"
	RepositoryURL = "https://github.com/grigorel/gemcord"
	Version       = "0.1.0"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Blob is a typed binary attachment payload.
type Blob struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Part is one content fragment of a Turn. It is a tagged union: exactly one
// of Text or Blob is meaningful.
type Part struct {
	Text string `json:"text,omitempty"`
	Blob *Blob  `json:"blob,omitempty"`
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(contentType string, data []byte) Part {
	return Part{Blob: &Blob{ContentType: contentType, Data: data}}
}

func (p Part) IsBlob() bool {
	return p.Blob != nil
}

// Turn is one role-tagged message unit in a conversation.
type Turn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// CloneTurns returns a deep enough copy that appending to either slice does
// not affect the other.
func CloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		parts := make([]Part, len(t.Parts))
		copy(parts, t.Parts)
		out[i] = Turn{Role: t.Role, Parts: parts}
	}
	return out
}
