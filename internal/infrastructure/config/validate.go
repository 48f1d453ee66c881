package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap/zapcore"
)

// MaxNameLength bounds the container name
const MaxNameLength = 64

// namePattern allows alphanumerics, dots, hyphens and underscores
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Validate reports every problem in cfg at once.
func (cfg *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %q is not a port number", cfg.Server.Port))
	}

	name := cfg.Interface.Name
	switch {
	case name == "":
		errs = append(errs, errors.New("interface.name: required"))
	case len(name) > MaxNameLength:
		errs = append(errs, fmt.Errorf("interface.name: longer than %d characters", MaxNameLength))
	case !namePattern.MatchString(name) || name == "." || name == "..":
		errs = append(errs, fmt.Errorf("interface.name: %q must be a single path segment", name))
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate_limit: requests_per_second and burst must be positive when enabled"))
	}

	return errors.Join(errs...)
}
