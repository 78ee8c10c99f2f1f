package errors

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Codes are part of the ABCI
// responses and must never change.
var (
	// ErrUnauthorized is returned when a required signature is missing.
	ErrUnauthorized = Register(2, "unauthorized")
	ErrNotFound     = Register(3, "not found")
	// ErrDuplicate is returned when a unique key or index is taken.
	ErrDuplicate = Register(6, "duplicate")
	// ErrHuman signals a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")
	ErrEmpty = Register(9, "value is empty")
	// ErrState is returned when an operation does not fit the current
	// state of an object, for example depositing into a finalized sale.
	ErrState = Register(10, "invalid state")
	ErrType  = Register(11, "invalid type")
	// ErrAmount is returned for invalid amounts, including insufficient
	// funds.
	ErrAmount   = Register(12, "invalid amount")
	ErrInput    = Register(13, "invalid input")
	ErrOverflow = Register(14, "an operation cannot be completed due to value overflow")
	ErrDatabase = Register(15, "database")
	// ErrIteratorDone ends every iteration. It is not a failure.
	ErrIteratorDone = Register(16, "iterator done")

	// ErrPanic wraps a recovered panic. Its message is redacted outside of
	// debug mode.
	ErrPanic = Register(111222, "panic")
)

// usedCodes maps every registered code to its error. Code 1 is reserved
// for errors that were never registered.
var usedCodes = map[uint32]*Error{1: nil}

// Register declares a new root error. Extensions call it during package
// initialization to declare their own codes. Reusing a code panics.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error code %d already registered for %q", code, e.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Errors created at runtime wrap one of them, which
// decides the ABCI code returned to the client.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }

// ABCICode returns the code that is used in the ABCI response.
func (e Error) ABCICode() uint32 { return e.code }

// Is reports whether err is this root error, wraps it, or is a group of
// errors containing it. A nil *Error matches only nil errors.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, inner := range u.Unpack() {
				if e.Is(inner) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds a description to err. The innermost wrap records the stack
// trace, printed with %+v. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string { return e.msg + ": " + e.parent.Error() }
func (e *wrappedError) Cause() error  { return e.parent }

// Format prints the stack trace for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "%s: %+v", e.msg, e.parent)
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		io.WriteString(s, e.Error())
	}
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// stackTrace returns the first stack trace found while unwrapping err.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// isNilErr also treats a typed nil pointer as nil.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
