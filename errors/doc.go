/*
Package errors implements custom error interfaces for the estate application.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Each extension that needs a
root error of its own (x/escrow does) registers it with Register(code,
description), using a code that is unique across the application.

Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly.

There is also support for stacktraces. Please ensure you create the custom
error using errors.Wrap(err, "...") at the point of creation to ensure we
attach a stacktrace. If you wrap multiple times, we only record the first
wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
