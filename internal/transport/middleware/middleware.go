// Package middleware holds the HTTP middleware shared by the lookup API.
package middleware

import "net/http"

// Middleware wraps an http.Handler. It matches the signature chi's Use expects.
type Middleware func(http.Handler) http.Handler
