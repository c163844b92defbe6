// Package apperr defines the error taxonomy shared by the storefront services
// and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindEmptyCart       Kind = "empty_cart"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// Sentinels for errors.Is checks; an *Error matches the sentinel of its Kind.
var (
	ErrNotFound        = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Msg: "invalid argument"}
	ErrEmptyCart       = &Error{Kind: KindEmptyCart, Msg: "cart is empty"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Msg: "access token required"}
	ErrForbidden       = &Error{Kind: KindForbidden, Msg: "invalid token"}
	ErrConflict        = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrInternal        = &Error{Kind: KindInternal, Msg: "internal error"}
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == e.Msg || isSentinel(t))
}

func isSentinel(e *Error) bool {
	switch e {
	case ErrNotFound, ErrInvalidArgument, ErrEmptyCart, ErrUnauthorized,
		ErrForbidden, ErrConflict, ErrInternal:
		return true
	}
	return false
}

func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Msg: msg} }
func InvalidArgument(msg string) error { return &Error{Kind: KindInvalidArgument, Msg: msg} }
func Unauthorized(msg string) error    { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Msg: msg} }
func Conflict(msg string) error        { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps an unexpected collaborator failure.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindInternal, Msg: "internal error", Err: err}
}

// KindOf reports the Kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Message returns the user-visible message of err. Internal errors never leak
// the wrapped cause.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Msg
	}
	return ErrInternal.Msg
}
