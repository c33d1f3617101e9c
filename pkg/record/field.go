// Package record defines the field envelope and the canonical property and
// agent record types produced by the acquisition pipeline. Every extracted
// value travels inside a Field, which carries its provenance and confidence
// from the moment it is extracted.
package record

import "time"

// Source identifies how a field value was obtained.
type Source string

const (
	SourceScraped       Source = "scraped"
	SourceStructuredAPI Source = "structured_api"
	SourceInferred      Source = "inferred"
	SourceManual        Source = "manual"
)

// ReviewThreshold is the confidence score below which a field is flagged
// for human review at creation time.
const ReviewThreshold = 70

// rank orders provenance for merge tie-breaking. Higher wins.
func (s Source) rank() int {
	switch s {
	case SourceManual:
		return 4
	case SourceStructuredAPI:
		return 3
	case SourceScraped:
		return 2
	case SourceInferred:
		return 1
	default:
		return 0
	}
}

// Field wraps a value with provenance, a 0-100 confidence score and a
// review flag. NeedsReview is set whenever Confidence < ReviewThreshold at
// creation time; a later merge never clears it. Only an explicit manual
// override (see Override) resets the flag.
type Field[T any] struct {
	Value       T         `json:"value"`
	Source      Source    `json:"source"`
	Confidence  int       `json:"confidence"`
	NeedsReview bool      `json:"needs_review"`
	ObservedAt  time.Time `json:"observed_at"`
}

// New creates a field with the review flag derived from confidence.
// Confidence is clamped to [0, 100].
func New[T any](value T, source Source, confidence int) *Field[T] {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return &Field[T]{
		Value:       value,
		Source:      source,
		Confidence:  confidence,
		NeedsReview: confidence < ReviewThreshold,
		ObservedAt:  time.Now(),
	}
}

// Scraped creates a field extracted from page content.
func Scraped[T any](value T, confidence int) *Field[T] {
	return New(value, SourceScraped, confidence)
}

// FromAPI creates a field obtained from a machine-readable endpoint.
func FromAPI[T any](value T, confidence int) *Field[T] {
	return New(value, SourceStructuredAPI, confidence)
}

// Inferred creates a field derived from another field rather than
// observed directly (e.g. a neighborhood parsed out of an address).
func Inferred[T any](value T, confidence int) *Field[T] {
	return New(value, SourceInferred, confidence)
}

// Override creates a field carrying a human-corrected value. Manual values
// are authoritative: full confidence, review flag cleared.
func Override[T any](value T) *Field[T] {
	f := New(value, SourceManual, 100)
	f.NeedsReview = false
	return f
}
