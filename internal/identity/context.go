package identity

import (
	"context"
	"strings"
)

// CallerContextKey is the request context key for the calling principal.
type CallerContextKey struct{}

// WithCaller stores the caller's principal address in the context.
func WithCaller(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, CallerContextKey{}, strings.TrimSpace(principal))
}

// CallerFromContext returns the caller's principal address, if set.
func CallerFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value := ctx.Value(CallerContextKey{})
	if value == nil {
		return "", false
	}
	principal, ok := value.(string)
	if !ok || principal == "" {
		return "", false
	}
	return principal, true
}
