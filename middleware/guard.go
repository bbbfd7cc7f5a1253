package middleware

import (
	"context"
	"net/http"
	"strings"

	guildperm "github.com/drossler/guildperm"
)

type attestationContextKey struct{}

// AttestationFromContext returns the verified attestation a guard stored on
// the request context.
func AttestationFromContext(ctx context.Context) (guildperm.Attestation, bool) {
	att, ok := ctx.Value(attestationContextKey{}).(guildperm.Attestation)
	return att, ok
}

// Guard verifies the bearer attestation on each request and stores it on the
// context for handlers. Requests without a valid token are rejected with 401.
func Guard(engine *guildperm.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			att, err := engine.VerifyAttestation(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), attestationContextKey{}, att)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
