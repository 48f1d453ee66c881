// Package main is the entry point for the procintf server.
//
// The server creates the access point container and its four endpoints,
// then serves them over HTTP:
//
//	GET       /proc                      list nodes
//	GET       /proc/<name>/<endpoint>    show
//	PUT|POST  /proc/<name>/<endpoint>    apply (request body)
//	GET       /health, /metrics
//
// Configuration:
//   - Defaults
//   - Optional YAML or TOML file named by PROCINTF_CONFIG
//   - Environment variables (12-factor)
//   - CLI flags (override everything else)
//
// Usage:
//
//	./server -port 8000
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: stop serving, then power off and remove the interface
package main
