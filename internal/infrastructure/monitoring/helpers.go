package monitoring

import (
	"strings"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// Operation labels
const (
	OpRead  = "read"
	OpWrite = "write"
)

// OutcomeOK labels a successful call
const OutcomeOK = "ok"

// UnknownEndpoint labels calls to names that are not registered
const UnknownEndpoint = "unknown"

// Outcome maps an error to a low-cardinality label: "ok" or the lowercased
// cause code.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return strings.ToLower(fault.CodeOf(err))
}
