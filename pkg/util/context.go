package util

import (
	"context"
)

type contextKey struct{ name string }

var verboseKey = &contextKey{"verbose"}

// WithVerbose records whether commands should print extra detail
func WithVerbose(ctx context.Context, verbose bool) context.Context {
	return context.WithValue(ctx, verboseKey, verbose)
}

// IsVerbose returns true if verbose mode is enabled in the context
func IsVerbose(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, ok := ctx.Value(verboseKey).(bool)
	return ok && v
}
