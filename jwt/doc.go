// Package jwt signs and verifies permission attestations: short-lived tokens
// carrying a resolved permission bitmask that downstream services can trust
// without re-running resolution.
//
// # Architecture boundaries
//
// This package wraps github.com/golang-jwt/jwt/v5 behind a small [Manager]
// and owns key parsing and claim validation. It knows nothing about guilds,
// channels, or the resolution algorithm.
//
// # What this package must NOT do
//
//   - Import guildperm or permission (no import cycles).
//   - Perform any I/O.
//   - Accept the "none" algorithm or cross-algorithm tokens.
package jwt
