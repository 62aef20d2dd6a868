// Package poolerr is the structured error value (C9) that every mempool
// operation records and returns on failure. It mirrors the original's
// {code, file, line, detail} record, capturing the call site the way the
// C sources used __FILE__/__LINE__ macros.
package poolerr

import (
	"fmt"
	"runtime"
)

// Code is a closed enumeration of the failure kinds the core itself sets.
// The wider error-code space described by spec.md §4.8 belongs to the
// surrounding CARBON archive; this module only ever produces the codes
// below.
type Code int

const (
	NoError Code = iota
	NullPointer
	OutOfBounds
	AllocFailed
	ReallocFailed
	NotImplemented
	NotFound
	IllegalArgument
	PoolLimitReached
	FreeFailed
	SubOperationFailed
	InternalError
)

func (c Code) String() string {
	switch c {
	case NoError:
		return "no-error"
	case NullPointer:
		return "null-pointer"
	case OutOfBounds:
		return "out-of-bounds"
	case AllocFailed:
		return "alloc-failed"
	case ReallocFailed:
		return "realloc-failed"
	case NotImplemented:
		return "not-implemented"
	case NotFound:
		return "not-found"
	case IllegalArgument:
		return "illegal-argument"
	case PoolLimitReached:
		return "pool-limit-reached"
	case FreeFailed:
		return "free-failed"
	case SubOperationFailed:
		return "sub-operation-failed"
	default:
		return "internal-error"
	}
}

// Error is the structured value recorded in a pool's error slot and
// returned to the caller. It is a plain value type: copying it deep-clones
// since Detail is an immutable Go string.
type Error struct {
	Code   Code
	File   string
	Line   int
	Detail string
	isSet  bool
}

// New builds an Error of the given code, capturing the caller's file/line.
func New(code Code) Error {
	return newAt(code, "", 2)
}

// Newf is New with a formatted detail message.
func Newf(code Code, format string, args ...any) Error {
	e := newAt(code, fmt.Sprintf(format, args...), 2)
	return e
}

func newAt(code Code, detail string, skip int) Error {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file, line = "unknown", 0
	}
	return Error{Code: code, File: file, Line: line, Detail: detail, isSet: true}
}

// IsSet reports whether this value was produced by New/Newf, as opposed to
// being the zero value (which stands for "no error recorded").
func (e Error) IsSet() bool { return e.isSet }

// Error implements the standard error interface.
func (e Error) Error() string {
	if !e.isSet {
		return Code(NoError).String()
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s:%d)", e.Code, e.Detail, e.File, e.Line)
	}
	return fmt.Sprintf("%s (%s:%d)", e.Code, e.File, e.Line)
}
