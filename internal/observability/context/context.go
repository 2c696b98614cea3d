// Package obscontext carries request-scoped correlation identifiers through
// context.Context without importing any transport packages.
package obscontext

import "context"

type requestIDKey struct{}
type clientKeyKey struct{}

// WithRequestID stores the request identifier on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request identifier, or empty.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithClientKey stores the rate-limit client key (API consumer identity or
// source address) on the context.
func WithClientKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, clientKeyKey{}, key)
}

// ClientKeyFromContext returns the rate-limit client key, or empty.
func ClientKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(clientKeyKey{}).(string); ok {
		return v
	}
	return ""
}
