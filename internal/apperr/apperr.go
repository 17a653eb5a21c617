// Package apperr carries request failures from services to the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
)

const (
	MsgForbidden = "You do not have permission to perform this action."
	MsgNotFound  = "Not found."
	MsgInternal  = "Internal server error"
)

// Error is a failure with a client-facing kind. Err is the cause and is
// only ever logged.
type Error struct {
	Kind   Kind
	Detail string
	Fields map[string][]string
	Code   string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString(": invalid ")
		b.WriteString(strings.Join(names, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not found"
	default:
		return "internal"
	}
}

// Status maps k onto an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// FieldErrors is a validation failure keyed by request field.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Err returns nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Fields: f}
}

func Field(field, msg string) *Error {
	return &Error{Kind: KindValidation, Fields: map[string][]string{field: {msg}}}
}

func Unauthenticated(detail string) *Error {
	return &Error{Kind: KindAuthentication, Detail: detail}
}

func Forbidden() *Error {
	return &Error{Kind: KindAuthorization, Detail: MsgForbidden}
}

func NotFound() *Error {
	return &Error{Kind: KindNotFound, Detail: MsgNotFound}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Detail: MsgInternal, Err: err}
}

// As returns err as an *Error. Anything unrecognised becomes internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == k
}
