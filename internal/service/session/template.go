package session

import (
	"context"
	"os"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/pkg/log"
)

// LoadTemplate reads the persona template from path. The file is optional; a
// missing or unreadable file yields an empty template and a fresh session
// starts with no seed turns. Loose part shapes are accepted, same as
// persisted history.
func LoadTemplate(ctx context.Context, path string) []core.Turn {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.FromCtx(ctx).Warn().Err(err).Str("path", path).Msg("could not read template file")
		}
		return nil
	}

	turns, err := Normalize(data)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("path", path).Msg("could not parse template file")
		return nil
	}

	log.FromCtx(ctx).Info().Int("turns", len(turns)).Str("path", path).Msg("loaded persona template")
	return turns
}

// StripBlobs replaces binary parts with a text placeholder. Durable logs stay
// small and replayable; raw bytes only ever live in the in-memory session.
func StripBlobs(turns []core.Turn) []core.Turn {
	out := core.CloneTurns(turns)
	for i, turn := range out {
		for j, part := range turn.Parts {
			if part.IsBlob() {
				out[i].Parts[j] = core.TextPart("[attachment: " + part.Blob.ContentType + "]")
			}
		}
	}
	return out
}
