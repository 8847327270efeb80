package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/grigorel/gemcord/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator returns canned responses and records what it was sent.
type fakeGenerator struct {
	reply       string
	err         error
	gotHistory  []core.Turn
	gotParts    []core.Part
	invocations int
}

func (f *fakeGenerator) Generate(ctx context.Context, history []core.Turn, parts []core.Part) (string, error) {
	f.invocations++
	f.gotHistory = core.CloneTurns(history)
	f.gotParts = parts
	return f.reply, f.err
}

var testTemplate = []core.Turn{
	{Role: core.RoleUser, Parts: []core.Part{core.TextPart("Please give short answers!")}},
	{Role: core.RoleModel, Parts: []core.Part{core.TextPart("I will try my best!")}},
}

func TestEnsureSession_Idempotent(t *testing.T) {
	r := NewRegistry(&fakeGenerator{}, testTemplate)

	r.EnsureSession("42")
	once := r.Log("42")

	r.EnsureSession("42")
	twice := r.Log("42")

	assert.Equal(t, testTemplate, once)
	assert.Equal(t, once, twice)
}

func TestAppendAndGenerate_AppendsBothTurns(t *testing.T) {
	gen := &fakeGenerator{reply: "Hi alice!"}
	r := NewRegistry(gen, testTemplate)

	parts := []core.Part{core.TextPart(`@alice said "hello"`)}
	text, err := r.AppendAndGenerate(context.Background(), "42", parts)
	require.NoError(t, err)
	assert.Equal(t, "Hi alice!", text)

	// The generator saw the seeded template as history, not the new turn.
	assert.Equal(t, testTemplate, gen.gotHistory)
	assert.Equal(t, parts, gen.gotParts)

	log := r.Log("42")
	require.Len(t, log, 4)
	assert.Equal(t, core.RoleUser, log[2].Role)
	assert.Equal(t, parts, log[2].Parts)
	assert.Equal(t, core.RoleModel, log[3].Role)
	assert.Equal(t, "Hi alice!", log[3].Parts[0].Text)
}

func TestAppendAndGenerate_EmptyReplySkipsModelTurn(t *testing.T) {
	r := NewRegistry(&fakeGenerator{reply: ""}, nil)

	text, err := r.AppendAndGenerate(context.Background(), "42", []core.Part{core.TextPart("hi")})
	require.NoError(t, err)
	assert.Equal(t, "", text)

	log := r.Log("42")
	require.Len(t, log, 1)
	assert.Equal(t, core.RoleUser, log[0].Role)
}

func TestAppendAndGenerate_FailureLeavesLogUntouched(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("policy rejection")}
	r := NewRegistry(gen, testTemplate)
	r.EnsureSession("42")
	before := r.Log("42")

	_, err := r.AppendAndGenerate(context.Background(), "42", []core.Part{core.TextPart("hi")})
	require.Error(t, err)

	// No orphaned user-only turn after a failed generation.
	assert.Equal(t, before, r.Log("42"))
}

func TestReset_DiscardsPriorContent(t *testing.T) {
	gen := &fakeGenerator{reply: "sure"}
	r := NewRegistry(gen, testTemplate)

	_, err := r.AppendAndGenerate(context.Background(), "42", []core.Part{core.TextPart("hi")})
	require.NoError(t, err)
	require.Len(t, r.Log("42"), 4)

	r.Reset("42")
	assert.Equal(t, testTemplate, r.Log("42"))
}

func TestReset_WithPersonaTurns(t *testing.T) {
	r := NewRegistry(&fakeGenerator{}, testTemplate)

	persona := []core.Turn{
		{Role: core.RoleUser, Parts: []core.Part{core.TextPart("Forget what I said earlier! You are a pirate")}},
		{Role: core.RoleModel, Parts: []core.Part{core.TextPart("Ok!")}},
	}
	r.Reset("42", persona...)

	log := r.Log("42")
	require.Len(t, log, 4)
	assert.Equal(t, testTemplate, log[:2])
	assert.Equal(t, persona, log[2:])
}

func TestDelete_RecreatesFromScratch(t *testing.T) {
	gen := &fakeGenerator{reply: "yo"}
	r := NewRegistry(gen, testTemplate)

	_, err := r.AppendAndGenerate(context.Background(), "42", []core.Part{core.TextPart("hi")})
	require.NoError(t, err)

	r.Delete("42")
	assert.Nil(t, r.Log("42"))

	r.EnsureSession("42")
	assert.Equal(t, testTemplate, r.Log("42"))
}

func TestLoadPersisted(t *testing.T) {
	r := NewRegistry(&fakeGenerator{}, testTemplate)

	r.LoadPersisted(context.Background(), map[string]json.RawMessage{
		"42":  json.RawMessage(`[{"role":"user","parts":["hello"]},{"role":"model","parts":["hi"]}]`),
		"bad": json.RawMessage(`{broken`),
	})

	log := r.Log("42")
	require.Len(t, log, 2)
	assert.Equal(t, "hello", log[0].Parts[0].Text)

	// The bad channel starts empty rather than template-seeded: its session
	// exists but holds no turns.
	assert.Empty(t, r.Log("bad"))

	// Loaded sessions are not re-seeded by EnsureSession.
	r.EnsureSession("42")
	assert.Len(t, r.Log("42"), 2)
}
