// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: coloured console output
//
// The level can be changed at runtime through SetLevel, which the server
// uses to follow the debug level written by callers.
//
// Example Usage:
//
//	logger := logging.NewOrNop(logging.DefaultConfig())
//	logger.Info("Interface initialized", zap.String("name", "procintf"))
package logging
