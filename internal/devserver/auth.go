package devserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/prepsom/levelplay/internal/api"
	httperrors "github.com/prepsom/levelplay/pkg/http/errors"
)

type ctxKey struct{}

// authMiddleware resolves the caller from a bearer token and stores the user id in the
// request context. Requests without an Authorization header play as the anonymous user.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, api.AnonymousUser)))
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
			return
		}

		user, err := api.UserFromToken(parts[1])
		if err != nil {
			s.logger.Warn().Err(err).Msg("token rejected")
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	})
}

func userFrom(ctx context.Context) string {
	if user, ok := ctx.Value(ctxKey{}).(string); ok && user != "" {
		return user
	}
	return api.AnonymousUser
}
