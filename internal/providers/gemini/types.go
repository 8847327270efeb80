package gemini

import (
	"encoding/json"

	"github.com/grigorel/gemcord/internal/core"
)

// Wire types for the generativelanguage.googleapis.com REST surface.

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inline_data,omitempty"`
}

type blob struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"` // encodes as base64
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content       content         `json:"content"`
		FinishReason  string          `json:"finishReason"`
		SafetyRatings json.RawMessage `json:"safetyRatings"`
	} `json:"candidates"`
	PromptFeedback json.RawMessage `json:"promptFeedback"`
}

var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

func toWireContent(turn core.Turn) content {
	return content{Role: turn.Role, Parts: toWireParts(turn.Parts)}
}

func toWireParts(parts []core.Part) []part {
	out := make([]part, 0, len(parts))
	for _, p := range parts {
		if p.Blob != nil {
			out = append(out, part{InlineData: &blob{MimeType: p.Blob.ContentType, Data: p.Blob.Data}})
			continue
		}
		out = append(out, part{Text: p.Text})
	}
	return out
}
