package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallerRoundTrip(t *testing.T) {
	ctx := WithCaller(context.Background(), "  farmer-1  ")
	principal, ok := CallerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "farmer-1", principal)
}

func TestCallerMissing(t *testing.T) {
	_, ok := CallerFromContext(context.Background())
	assert.False(t, ok)

	_, ok = CallerFromContext(WithCaller(context.Background(), ""))
	assert.False(t, ok)
}
