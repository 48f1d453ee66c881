package client

import (
	"fmt"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// Error is a failure reported by the server
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is matches the fault sentinel for the error's cause code
func (e *Error) Is(target error) bool {
	switch e.Code {
	case "EINVAL":
		return target == fault.ErrInvalid
	case "ERANGE":
		return target == fault.ErrRange
	case "ENOMEM":
		return target == fault.ErrResource
	case "ERESTARTSYS":
		return target == fault.ErrInterrupted
	case "EACCES":
		return target == fault.ErrPermission
	case "ENOENT":
		return target == fault.ErrNotFound
	}
	return false
}

// Temporary reports whether retrying later may succeed
func (e *Error) Temporary() bool {
	return e.Status >= 500 || e.Code == "ERESTARTSYS" || e.Code == "EAGAIN"
}
