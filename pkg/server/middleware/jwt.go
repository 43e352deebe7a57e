package middleware

import (
	"errors"
	"net"
	"net/http"

	"github.com/doodlesbykumbi/voterlist/pkg/config"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
)

// JWTAuthenticator is middleware that validates caller tokens
type JWTAuthenticator struct {
	Verifier *token.Verifier
	Config   *config.Config
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(verifier *token.Verifier, cfg *config.Config) *JWTAuthenticator {
	return &JWTAuthenticator{Verifier: verifier, Config: cfg}
}

// Middleware returns an HTTP middleware that validates the bearer token and
// stores the caller identity in the request context
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenStr, ok := token.BearerToken(authHeader)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		if j.Verifier == nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Token authentication is not configured"))
			return
		}

		id, err := j.Verifier.Verify(tokenStr)
		switch {
		case errors.Is(err, token.ErrExpired):
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Token expired"))
			return
		case err != nil:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid token"))
			return
		}

		id.WithRemoteIP(net.ParseIP(ClientIP(r, j.Config)))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}
