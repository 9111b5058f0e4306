package service

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindAuth
	KindForbidden
	KindInfra
	KindPartialFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindInfra:
		return "infra"
	case KindPartialFailure:
		return "partial_failure"
	default:
		return "unknown"
	}
}

// Error is the failure type every service returns to the delivery layer.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetails attaches a payload returned to the client alongside the message.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Infra(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInfra, Message: fmt.Sprintf(format, args...), Err: err}
}

func PartialFailure(err error, format string, args ...any) *Error {
	return &Error{Kind: KindPartialFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err, KindInfra for errors not raised by a service.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInfra
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
