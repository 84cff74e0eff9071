package middleware

import (
	"context"

	pkgauth "github.com/webshopkit/webshop-backend/pkg/auth"
)

type contextKey string

const ctxAccess contextKey = "access"

// AccessFromContext returns the caller identity seeded by the Auth middleware.
func AccessFromContext(ctx context.Context) (pkgauth.Access, bool) {
	if ctx == nil {
		return pkgauth.Access{}, false
	}
	if v, ok := ctx.Value(ctxAccess).(pkgauth.Access); ok {
		return v, true
	}
	return pkgauth.Access{}, false
}

// WithAccess injects the caller identity into the context.
func WithAccess(ctx context.Context, access pkgauth.Access) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccess, access)
}
