package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Field wraps err as the failure of a single message or model field. Use
// the Go name of the field, for example Buyer or PurchasePrice. A nil err
// gives nil.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the field error, if any, to errs.
func AppendField(errs error, fieldName string, fieldErr error) error {
	return Append(errs, Field(fieldName, fieldErr, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error  { return e.parent }
func (e *fieldError) Field() string { return e.field }

// FieldErrors collects the errors created with Field for the given field
// name, looking inside of wrapped errors and groups.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	for !isNilErr(err) {
		if f, ok := err.(interface{ Field() string }); ok && f.Field() == fieldName {
			return append(res, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, inner := range u.Unpack() {
				res = append(res, FieldErrors(inner, fieldName)...)
			}
			return res
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return res
}

// Append groups the non nil errors. Groups are flattened. It returns nil
// when there is no error and the error itself when there is just one.
func Append(errs ...error) error {
	var group multiErr
	for _, e := range errs {
		switch m := e.(type) {
		case multiErr:
			group = append(group, m...)
		default:
			if !isNilErr(e) {
				group = append(group, e)
			}
		}
	}
	switch len(group) {
	case 0:
		return nil
	case 1:
		return group[0]
	default:
		return group
	}
}

// multiErr is a group of at least two errors.
type multiErr []error

func (m multiErr) Unpack() []error { return m }

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t* %s", len(m), strings.Join(msgs, "\n\t* "))
}

// ABCICode of a group is the code of its first error.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

type unpacker interface {
	Unpack() []error
}
