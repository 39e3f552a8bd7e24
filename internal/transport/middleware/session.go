package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pollylang/pollylang-backend/pkg/ctxutil"
)

type sessionResolver interface {
	UserFromRequest(r *http.Request) (uuid.UUID, error)
}

// Session attaches the signed-in player to the context. Requests without a
// valid session cookie continue anonymously; handlers that need a player
// reject them.
func Session(resolver sessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.UserFromRequest(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), userID)))
		})
	}
}
