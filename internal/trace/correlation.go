package trace

import (
	"context"

	"github.com/google/uuid"
)

type key int

const correlationKey key = 0

// New returns a child context carrying a freshly minted correlation ID.
func New(ctx context.Context) context.Context {
	return WithCorrelationID(ctx, uuid.New().String())
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}

func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey).(string); ok {
		return id
	}
	return ""
}
