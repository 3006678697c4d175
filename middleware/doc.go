// Package middleware provides net/http adapters over the engine's token
// validation: a bearer-token guard that authenticates each request and
// exposes the subject account id to downstream handlers.
package middleware
