package id

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewRequestID returns a random identifier used to correlate a request
// across log lines.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID stores a request ID on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request ID stored on ctx, or "".
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey{}).(string)
	return v
}
