// Package config provides layered configuration for procintf.
//
// Values come from, in increasing precedence:
//  1. Default()
//  2. a YAML or TOML file named by PROCINTF_CONFIG
//  3. environment variables
//
// Load validates the merged result; CLI flags in cmd/server override it
// and validate again.
//
// Configuration Sections:
//   - Server: HTTP listen address
//   - Interface: container name, page offset override, secret, node owner
//     and the default caller identity
//   - Logging: level and development mode
//   - RateLimit: per-IP request limiting
//   - CORS: allowed origins
//
// Environment Variables:
//   - PORT, HOST
//   - PROC_NAME, PROC_PAGE_OFFSET, PROC_SECRET, PROC_OWNER_UID,
//     PROC_OWNER_GID, PROC_CALLER_UID, PROC_CALLER_GID
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS (comma separated)
package config
