package session

import (
	"encoding/json"
	"fmt"

	"github.com/grigorel/gemcord/internal/core"
)

// looseTurn tolerates the shapes earlier versions persisted: bare-string
// parts, single non-array parts, untyped scalars.
type looseTurn struct {
	Role  *string         `json:"role"`
	Parts json.RawMessage `json:"parts"`
}

// Normalize converts a persisted log of unknown vintage into canonical turns.
// Turns missing a role or parts are dropped; a part that is a plain string
// becomes a text part, structured parts pass through, and any other scalar is
// stringified then wrapped. It returns an error only when the payload is not
// valid JSON at all.
func Normalize(raw json.RawMessage) ([]core.Turn, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var loose []looseTurn
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, fmt.Errorf("decode log: %w", err)
	}

	var turns []core.Turn
	for _, lt := range loose {
		if lt.Role == nil || len(lt.Parts) == 0 || string(lt.Parts) == "null" {
			continue
		}

		parts, err := normalizeParts(lt.Parts)
		if err != nil {
			return nil, fmt.Errorf("decode parts: %w", err)
		}
		turns = append(turns, core.Turn{Role: *lt.Role, Parts: parts})
	}
	return turns, nil
}

func normalizeParts(raw json.RawMessage) ([]core.Part, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// A single non-array value counts as a one-part list.
		items = []json.RawMessage{raw}
	}

	parts := make([]core.Part, 0, len(items))
	for _, item := range items {
		parts = append(parts, normalizePart(item))
	}
	return parts, nil
}

func normalizePart(raw json.RawMessage) core.Part {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return core.TextPart(s)
	}

	var obj struct {
		Text *string    `json:"text"`
		Blob *core.Blob `json:"blob"`
		// Older rows used the wire names directly.
		InlineData *struct {
			MimeType string `json:"mime_type"`
			Data     []byte `json:"data"`
		} `json:"inline_data"`
		MimeType *string `json:"mime_type"`
		Data     []byte  `json:"data"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		switch {
		case obj.Blob != nil:
			return core.Part{Blob: obj.Blob}
		case obj.InlineData != nil:
			return core.BlobPart(obj.InlineData.MimeType, obj.InlineData.Data)
		case obj.MimeType != nil:
			return core.BlobPart(*obj.MimeType, obj.Data)
		case obj.Text != nil:
			return core.TextPart(*obj.Text)
		}
	}

	// Any other scalar: stringify then wrap.
	return core.TextPart(string(raw))
}
