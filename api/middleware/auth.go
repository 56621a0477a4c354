package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/marvindelacruz/hardwarehub-backend/api/responses"
	pkgAuth "github.com/marvindelacruz/hardwarehub-backend/pkg/auth"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/config"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// acting identity. Authentication itself lives upstream; this layer only
// establishes who the actor is so status events can record them.
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

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxActorID, claims.ActorID.String())
			ctx = context.WithValue(ctx, ctxActorName, claims.ActorName)
			ctx = context.WithValue(ctx, ctxActorRole, string(claims.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"actor_id":   claims.ActorID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
