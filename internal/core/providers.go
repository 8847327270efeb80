package core

import "context"

// Generator is the boundary to the hosted generative-language API: send the
// ordered conversation plus the new user parts, get back generated text.
// An empty string with a nil error means the model produced no text.
type Generator interface {
	Generate(ctx context.Context, history []Turn, parts []Part) (string, error)
}
