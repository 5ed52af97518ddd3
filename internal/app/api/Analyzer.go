package api

import "context"

// Analyzer extracts structured medical information from transcribed text.
type Analyzer interface {
	// AnalyzeMedicalCoding returns suggested ICD-10/CPT codes, detected
	// conditions, medications and a summary as a JSON-shaped map.
	AnalyzeMedicalCoding(ctx context.Context, text string) (map[string]any, error)
	// Summarize produces a concise clinical summary of the text.
	Summarize(ctx context.Context, text string) (string, error)
}
