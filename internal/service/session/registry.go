package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/grigorel/gemcord/pkg/log"
)

// channelSession is one channel's live conversation. Its mutex serializes
// generation per channel, so two quick messages in the same channel cannot
// interleave their read-generate-append cycles.
type channelSession struct {
	mu    sync.Mutex
	turns []core.Turn
}

// Registry owns every in-memory session, keyed by channel ID. Sessions are
// created lazily from the template, reset by /forget, and only disappear on
// explicit delete.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*channelSession
	generator core.Generator
	template  []core.Turn
}

func NewRegistry(generator core.Generator, template []core.Turn) *Registry {
	return &Registry{
		sessions:  make(map[string]*channelSession),
		generator: generator,
		template:  core.CloneTurns(template),
	}
}

// LoadPersisted primes the registry from durable logs. A channel whose log
// cannot be normalized starts empty with a warning; one bad row never aborts
// the load.
func (r *Registry) LoadPersisted(ctx context.Context, logs map[string]json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for channelID, raw := range logs {
		turns, err := Normalize(raw)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("channel_id", channelID).
				Msg("could not normalize persisted history, starting channel empty")
			r.sessions[channelID] = &channelSession{}
			continue
		}
		r.sessions[channelID] = &channelSession{turns: turns}
	}
}

func (r *Registry) session(channelID string) *channelSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[channelID]
	if !ok {
		s = &channelSession{turns: core.CloneTurns(r.template)}
		r.sessions[channelID] = s
	}
	return s
}

// EnsureSession creates the channel's session from the template if it does
// not exist yet. Idempotent.
func (r *Registry) EnsureSession(channelID string) {
	r.session(channelID)
}

// AppendAndGenerate submits parts as a new user turn and returns the
// generated text. The user turn and the model reply are appended only after
// the API call succeeds: a failed generation leaves the log exactly as it
// was, never an orphaned user turn.
func (r *Registry) AppendAndGenerate(ctx context.Context, channelID string, parts []core.Part) (string, error) {
	s := r.session(channelID)

	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := r.generator.Generate(ctx, s.turns, parts)
	if err != nil {
		return "", err
	}

	s.turns = append(s.turns, core.Turn{Role: core.RoleUser, Parts: parts})
	if text != "" {
		s.turns = append(s.turns, core.Turn{Role: core.RoleModel, Parts: []core.Part{core.TextPart(text)}})
	}
	return text, nil
}

// Reset discards the channel's session and reseeds it from the template plus
// any extra turns (used by /forget with a persona).
func (r *Registry) Reset(channelID string, extra ...core.Turn) {
	seeded := append(core.CloneTurns(r.template), extra...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[channelID] = &channelSession{turns: seeded}
}

// Delete removes the session entirely; the next EnsureSession recreates it
// from scratch.
func (r *Registry) Delete(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, channelID)
}

// Log returns a copy of the channel's current conversation log, empty if the
// channel has no session.
func (r *Registry) Log(channelID string) []core.Turn {
	r.mu.Lock()
	s, ok := r.sessions[channelID]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneTurns(s.turns)
}
