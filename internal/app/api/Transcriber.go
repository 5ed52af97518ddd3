package api

import "context"

// TranscriptionResult carries the text recognized from an audio file along
// with whatever metadata the provider reported.
type TranscriptionResult struct {
	Text     string
	Language string
	Duration float64
}

// Transcriber defines a transcription interface for converting audio files to text.
type Transcriber interface {
	Transcribe(ctx context.Context, inputFilePath string, language string) (TranscriptionResult, error)
}
