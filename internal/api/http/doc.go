// Package http exposes the access points over HTTP using gin.
//
// Reads return the show output as text/plain. Writes take the raw request
// body, which is copied through a bounded reader before dispatch, and
// answer with the number of bytes accepted. Failures carry the cause code
// next to the HTTP status.
//
// Endpoints:
//   - Service: /, /health, /metrics/json
//   - Listing: GET /proc
//   - Access points: GET, PUT and POST /proc/:container/:name
//
// Example Usage:
//
//	handlers := http.NewHandlers(namespace, manager, metrics, logger)
//	handlers.Register(router)
package http
