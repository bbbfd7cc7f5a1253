// Package middleware provides net/http middleware that admits requests based
// on verified permission attestations. Downstream services mount these guards
// instead of re-resolving permissions themselves.
package middleware
