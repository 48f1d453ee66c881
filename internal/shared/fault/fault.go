// Package fault defines the error taxonomy shared by every access point.
//
// Each failure carries a Kind, the operation that produced it and an
// optional cause. Kinds map onto errno-style cause codes that the
// transport layer reports next to its generic failure status.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure
type Kind int

const (
	KindValidation Kind = iota + 1
	KindRange
	KindResource
	KindInterrupted
	KindPermission
	KindNotFound
)

// Sentinels for errors.Is matching
var (
	ErrInvalid     = errors.New("invalid argument")
	ErrRange       = errors.New("value out of range")
	ErrResource    = errors.New("resource exhausted")
	ErrInterrupted = errors.New("interrupted, retry")
	ErrPermission  = errors.New("permission denied")
	ErrNotFound    = errors.New("no such access point")
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRange:
		return "range"
	case KindResource:
		return "resource"
	case KindInterrupted:
		return "interrupted"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Code returns the errno-style cause code reported to callers
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "EINVAL"
	case KindRange:
		return "ERANGE"
	case KindResource:
		return "ENOMEM"
	case KindInterrupted:
		return "ERESTARTSYS"
	case KindPermission:
		return "EACCES"
	case KindNotFound:
		return "ENOENT"
	default:
		return "EIO"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrInvalid
	case KindRange:
		return ErrRange
	case KindResource:
		return ErrResource
	case KindInterrupted:
		return ErrInterrupted
	case KindPermission:
		return ErrPermission
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Error is a classified failure
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New creates a classified error for op
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf creates a classified error with a formatted cause
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := "unknown error"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap exposes the cause
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Code returns the cause code of the error's kind
func (e *Error) Code() string { return e.Kind.Code() }

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// CodeOf returns the cause code for err, "EIO" when unclassified
func CodeOf(err error) string {
	return KindOf(err).Code()
}
