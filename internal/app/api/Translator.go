package api

import "context"

// Translator converts a chunk of text between two languages. Implementations
// receive pre-chunked input and never see the full transcript.
type Translator interface {
	Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error)
}
