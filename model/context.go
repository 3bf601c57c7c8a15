package model

import "context"

// RequestContext carries the session identity and tracing information for
// the lifetime of one request. It is immutable after construction and safe
// for concurrent reads.
type RequestContext struct {
	SessionID     string
	FullName      string
	CorrelationID string
}

type contextKey struct{}

// WithRequestContext attaches a RequestContext to the given context.
func WithRequestContext(ctx context.Context, rctx *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rctx)
}

// RequestContextFrom extracts the RequestContext from the context, or
// returns nil if not present.
func RequestContextFrom(ctx context.Context) *RequestContext {
	rctx, _ := ctx.Value(contextKey{}).(*RequestContext)
	return rctx
}
