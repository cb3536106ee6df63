// Package requestcontext carries request-scoped values between middleware
// and services without a net/http dependency. Middleware writes, services
// read, and tests inject directly.
package requestcontext

import (
	"context"
	"time"
)

type contextKey int

const (
	keyClientIP contextKey = iota
	keyUserAgent
	keyRequestID
	keyRequestTime
)

// WithClientMetadata records the client IP and User-Agent observed by the
// HTTP layer. Service tests that skip the middleware chain call it directly.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, keyClientIP, clientIP)
	return context.WithValue(ctx, keyUserAgent, userAgent)
}

// ClientIP returns the recorded client IP, or "" when none was set.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(keyClientIP).(string)
	return ip
}

// UserAgent returns the recorded User-Agent, or "" when none was set.
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(keyUserAgent).(string)
	return ua
}

// WithRequestID records the request correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// RequestID returns the request correlation ID, or "" when none was set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// WithTime pins the request time. Temporal checks and fraud heuristics read
// the clock through Now, so pinning it here makes them deterministic in tests.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyRequestTime, t)
}

// Now returns the pinned request time, falling back to the wall clock for
// contexts that never passed through the HTTP layer.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}
