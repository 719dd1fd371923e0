package credentials

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// Test hooks
var (
	newClientHook = func(ctx context.Context, apiKey string) (*genai.Client, error) {
		return genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	}
	livenessHook = func(ctx context.Context, client *genai.Client) error {
		// Cheapest authenticated call: read one entry from the model catalog.
		for _, err := range client.Models.All(ctx) {
			if err != nil {
				return err
			}
			break
		}
		return nil
	}
)

// Resolver produces a usable Gemini client from a primary API key, falling
// back to a secondary key when the primary fails its liveness check. The
// fallback is a one-shot substitution: the secondary client is built without
// further verification, and a failure there propagates to the caller.
type Resolver struct {
	Primary   string
	Secondary string
}

// Resolve builds a client from the primary key and probes it. On any probe
// or construction error it logs the failure and returns a client built from
// the secondary key.
func (r *Resolver) Resolve(ctx context.Context) (*genai.Client, error) {
	client, err := newClientHook(ctx, r.Primary)
	if err == nil {
		if err = livenessHook(ctx, client); err == nil {
			return client, nil
		}
	}

	log.Printf("primary Gemini credential rejected, switching to fallback key: %v", err)
	return r.Fallback(ctx)
}

// Fallback builds a client from the secondary key without a liveness probe.
func (r *Resolver) Fallback(ctx context.Context) (*genai.Client, error) {
	client, err := newClientHook(ctx, r.Secondary)
	if err != nil {
		return nil, fmt.Errorf("fallback credential failed: %w", err)
	}
	return client, nil
}
