package parser

import (
	"fmt"

	"github.com/samber/oops"
)

// Kind classifies the four error families from spec §7.
type Kind string

const (
	KindParse   Kind = "PARSE_ERROR"
	KindField   Kind = "FIELD_ERROR"
	KindDialect Kind = "DIALECT_ERROR"
	KindConfig  Kind = "CONFIG_ERROR"
)

// Error is the shape every error returned by the Parser's Parse methods
// takes: a Kind, the original input that produced it, and the wrapped
// detail. Errors from New, from pkg/field and from the dialects are bare
// oops errors without this wrapper. Its Error() string is always "[<input>] : <detail>"
// (spec §9), which is what makes a squery error instantly recognizable in
// a log line regardless of which stage produced it.
type Error struct {
	Kind  Kind
	Input string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] : %s", e.Input, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, input string, code string, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Input: input,
		Err: oops.In("squery").
			Code(code).
			With("input", input).
			Errorf(format, args...),
	}
}

func parseErr(input, format string, args ...any) *Error {
	return newErr(KindParse, input, string(KindParse), format, args...)
}

func fieldErr(input, format string, args ...any) *Error {
	return newErr(KindField, input, string(KindField), format, args...)
}
