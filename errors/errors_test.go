package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrState,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"successful comparison to a pkg/errors wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
		"group with the same error": {
			a:      ErrNotFound,
			b:      Append(ErrState, Wrap(ErrNotFound, "test")),
			wantIs: true,
		},
		"group with different errors": {
			a:      ErrNotFound,
			b:      Append(ErrState, ErrAmount),
			wantIs: false,
		},
		"field error": {
			a:      ErrEmpty,
			b:      Field("Buyer", ErrEmpty, "required"),
			wantIs: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

type customError struct{}

func (customError) Error() string {
	return "custom error"
}

func TestRegisterDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrNotFound.ABCICode(), "duplicate")
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	single := Wrap(ErrEmpty, "one")
	if err := Append(nil, single); err != single {
		t.Fatalf("single error must not be grouped, got %v", err)
	}
	err := Append(ErrState, Append(ErrEmpty, ErrInput))
	group, ok := err.(multiErr)
	if !ok {
		t.Fatalf("want a group, got %T", err)
	}
	if len(group) != 3 {
		t.Fatalf("groups must be flattened, got %d elements", len(group))
	}
	if code, _ := ABCIInfo(err, false); code != ErrState.ABCICode() {
		t.Fatalf("want code of the first error, got %d", code)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Buyer", ErrEmpty, "required"),
		Field("EscrowAmount", ErrAmount, "greater than price"),
		Field("Buyer", ErrInput, "bad length"),
	)

	if got := FieldErrors(err, "Buyer"); len(got) != 2 {
		t.Fatalf("want two Buyer errors, got %d", len(got))
	}
	if got := FieldErrors(err, "EscrowAmount"); len(got) != 1 || !ErrAmount.Is(got[0]) {
		t.Fatalf("unexpected EscrowAmount errors: %v", got)
	}
	if got := FieldErrors(err, "AssetID"); len(got) != 0 {
		t.Fatalf("want no AssetID errors, got %v", got)
	}
	if AppendField(nil, "Buyer", nil) != nil {
		t.Fatal("nil field error must be ignored")
	}
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error": {
			err:      nil,
			wantCode: SuccessABCICode,
			wantLog:  "",
		},
		"registered error": {
			err:      Wrap(ErrNotFound, "listing"),
			wantCode: ErrNotFound.ABCICode(),
			wantLog:  "listing: not found",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("secret"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"stdlib error in debug mode": {
			err:      fmt.Errorf("secret"),
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "secret",
		},
		"panic": {
			err:      Wrap(ErrPanic, "boom"),
			wantCode: ErrPanic.ABCICode(),
			wantLog:  "boom: panic",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Fatalf("want %d code, got %d", tc.wantCode, code)
			}
			if !strings.HasPrefix(log, tc.wantLog) {
				t.Fatalf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIError(t *testing.T) {
	err := ABCIError(ErrUnauthorized.ABCICode(), "signer missing")
	if !ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %v", err)
	}

	unknown := ABCIError(987654, "who knows")
	if ErrUnauthorized.Is(unknown) || ErrNotFound.Is(unknown) {
		t.Fatalf("unknown code must not match registered errors: %v", unknown)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(Wrap(ErrPanic, "stack"), false); ErrPanic.Is(err) {
		t.Fatal("panic must be redacted")
	}
	if err := Redact(ErrNotFound, false); !ErrNotFound.Is(err) {
		t.Fatal("registered error must not be redacted")
	}
	if err := Redact(fmt.Errorf("db"), true); err.Error() != "db" {
		t.Fatal("debug mode must keep the original error")
	}
}
