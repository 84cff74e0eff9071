package middleware

import (
	"net/http"
	"strings"

	"github.com/webshopkit/webshop-backend/api/responses"
	pkgauth "github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/config"
	"github.com/webshopkit/webshop-backend/pkg/enums"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
	"github.com/webshopkit/webshop-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// caller's access identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			access := pkgauth.Access{CustomerID: claims.CustomerID, Roles: claims.Roles}
			ctx := WithAccess(r.Context(), access)

			if logg != nil {
				ctx = logg.WithCustomerID(ctx, claims.CustomerID.String())
				ctx = logg.WithActorRoles(ctx, joinRoles(access.Roles))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func joinRoles(roles []enums.Role) string {
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		parts = append(parts, role.String())
	}
	return strings.Join(parts, ",")
}
