package api

import "context"

// Synthesizer renders text into spoken audio and returns the encoded bytes.
// An empty voice selects the provider default.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice string) ([]byte, error)
}
