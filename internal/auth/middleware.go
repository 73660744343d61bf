package auth

import (
	"net/http"
	"strings"

	"github.com/gigledger/gigledger/internal/shared"
)

// TokenVerifier validates a bearer token and returns its user ID.
type TokenVerifier interface {
	VerifyToken(token string) (int64, error)
}

// Middleware rejects requests without a valid bearer token and stores
// the authenticated user ID in the request context.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				shared.WriteError(w, nil, shared.ErrUnauthorized)
				return
			}
			userID, err := verifier.VerifyToken(token)
			if err != nil {
				shared.WriteError(w, nil, shared.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
