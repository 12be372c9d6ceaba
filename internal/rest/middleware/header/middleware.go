package header

import (
	"context"
	"net/http"

	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

type (
	remoteAddrCtxKey struct{}
	headersCtxKey    struct{}
)

// FromRemoteAddr retrieves the remote address from context.
func FromRemoteAddr(ctx context.Context) string {
	if addr, ok := ctx.Value(remoteAddrCtxKey{}).(string); ok {
		return addr
	}
	return ""
}

// FromHeaders retrieves the request headers from context.
func FromHeaders(ctx context.Context) http.Header {
	if headers, ok := ctx.Value(headersCtxKey{}).(http.Header); ok {
		return headers
	}
	return nil
}

// Middleware handles header extraction and storage.
type Middleware struct {
	logger *zap.Logger
}

// New creates a new header middleware.
func New(logger *zap.Logger) *Middleware {
	return &Middleware{
		logger: logger,
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for header extraction.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		ctx := m.storeHeadersInContext(req.Context(), req.RemoteAddr, req.Header)
		return next(w, req.WithContext(ctx))
	}
}

// storeHeadersInContext stores remote address and headers in context.
func (m *Middleware) storeHeadersInContext(ctx context.Context, remoteAddr string, headers http.Header) context.Context {
	ctx = context.WithValue(ctx, remoteAddrCtxKey{}, remoteAddr)
	ctx = context.WithValue(ctx, headersCtxKey{}, headers)

	m.logger.Debug("Stored remote address",
		zap.String("addr", remoteAddr))

	return ctx
}
