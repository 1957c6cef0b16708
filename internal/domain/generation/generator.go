package generation

import "context"

// Request describes a single text-generation call. The provider behind it is
// an untrusted external service: it may fail, hang, or return malformed text,
// and every caller is expected to cope with that.
type Request struct {
	// System is the fixed instruction block for the call.
	System string
	// Prompt is the user-facing content.
	Prompt string
	// JSONOnly asks the provider for a strict JSON object response.
	JSONOnly bool
	// Temperature overrides the provider default when > 0.
	Temperature float32
}

// Generator is the language-generation capability the domain depends on.
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
}
