package speech

import (
	"context"

	"google.golang.org/genai"
)

type SpeechServicePort interface {
	Synthesize(ctx context.Context, input SynthesisInput) (*Artifact, error)
}

// SessionResolver yields a usable Gemini client per request, hiding the
// primary/secondary credential substitution.
type SessionResolver interface {
	Resolve(ctx context.Context) (*genai.Client, error)
	Fallback(ctx context.Context) (*genai.Client, error)
}
