package middleware

import (
	"net/http"

	guildperm "github.com/drossler/guildperm"
	"github.com/drossler/guildperm/permission"
)

// Require wraps [Guard] and additionally rejects requests whose attestation
// does not carry every listed permission. Missing bits produce 403.
func Require(engine *guildperm.Engine, required ...permission.Permission) func(http.Handler) http.Handler {
	need, err := permission.FromPermissions(required...)

	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		if err != nil {
			// a misconfigured guard fails closed
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "forbidden", http.StatusForbidden)
			})
		}

		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			att, ok := AttestationFromContext(r.Context())
			if !ok || !att.Permissions.ContainsAll(need) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RequireChannel behaves like [Require] but also pins the attestation to one
// channel: guild-level tokens or tokens for another channel are rejected.
func RequireChannel(engine *guildperm.Engine, channelID string, required ...permission.Permission) func(http.Handler) http.Handler {
	base := Require(engine, required...)
	return func(next http.Handler) http.Handler {
		return base(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			att, ok := AttestationFromContext(r.Context())
			if !ok || att.ChannelID != channelID {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
