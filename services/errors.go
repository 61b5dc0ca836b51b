// SPDX-License-Identifier: GPL-3.0-only

// Package services holds the auth and contact operations. Every failure they
// return is an *Error carrying a Kind the HTTP layer maps to a status.
package services

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a user-facing failure. Message is safe to show to the caller; Err
// keeps the underlying cause for server errors.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func ConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func AuthError(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// ServerError wraps an infrastructure failure. The message is the cause's
// text so callers can choose to surface it.
func ServerError(err error) *Error {
	return &Error{Kind: KindServer, Message: err.Error(), Err: err}
}

// KindOf reports the Kind of err, or KindServer for errors that did not come
// from this package.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindServer
}
