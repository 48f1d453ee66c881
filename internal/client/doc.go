// Package client talks to a procintf server over HTTP.
//
// Reads return the show text of an access point, writes return the number
// of bytes the server accepted. Interrupted requests (503) are retried with
// backoff; other failures come back as *Error values that match the
// sentinels of package fault through errors.Is. A circuit breaker stops
// calling a server that keeps failing at the transport level.
package client
