// Package middleware provides the gin middleware stack in front of the
// access points.
//
// Middleware stack includes:
//   - RequestID: ULID request identifiers echoed in X-Request-ID
//   - Credentials: caller uid/gid from X-Caller-UID / X-Caller-GID
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle eviction
//   - Logger: one zap line per request, level chosen by status
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	router.Use(middleware.Credentials(access.Nobody))
package middleware
