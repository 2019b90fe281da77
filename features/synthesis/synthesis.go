// Package synthesis turns an uploaded PDF into derived study artifacts: a
// page-level bullet digest, a long-form synthesized markdown document, and
// schema-validated flashcard or quiz JSON. Everything is keyed by the content
// hash of the uploaded bytes, so identical uploads share every artifact.
package synthesis

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument     = errors.New("empty document")
	ErrNothingRequested  = errors.New("nothing to generate")
	ErrNoExtractableText = errors.New("no extractable text found (image-only document)")

	// ErrSchemaRepairExhausted means structured output stayed invalid after
	// the single repair round.
	ErrSchemaRepairExhausted = errors.New("structured output invalid after repair attempt")
)

// GenerationError wraps a typed failure from the text generator together with
// the pipeline stage it aborted.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed in %s stage: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ContentID derives the content-addressed identifier for a document. Two
// byte-identical uploads always map to the same ID.
func ContentID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Request carries one pipeline invocation: the raw document, a display title
// and the set of artifacts to produce.
type Request struct {
	Raw          []byte
	Title        string
	WantSummary  bool
	WantCards    bool
	NumQuestions int
	WordTarget   int
}

// Artifact is the bundle a pipeline run produces. Only the requested fields
// are populated.
type Artifact struct {
	ContentID    string `json:"id"`
	Title        string `json:"title"`
	Summary      string `json:"summary,omitempty"`
	CardsJSON    string `json:"cards_json,omitempty"`
	QuizJSON     string `json:"quiz_json,omitempty"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
