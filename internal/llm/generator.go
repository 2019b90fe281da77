// Package llm defines the text-generation contract the synthesis pipeline
// depends on. Concrete clients live under internal/adapter.
package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// Failure classes a Generator may return. Implementations wrap these so
// callers can match with errors.Is.
var (
	ErrAuth     = errors.New("generator authentication failed")
	ErrQuota    = errors.New("generator quota exceeded")
	ErrUpstream = errors.New("generator upstream error")
)

type Generator interface {
	Complete(ctx context.Context, msgs []Message, maxTokens int, temperature float32) (string, error)
}
