// Package errors provides error wrapping with slog annotations and source information.
//
// It re-exports the standard library helpers so callers only need one errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// annotatedError carries a message, an optional wrapped error, slog annotations,
// and the source location where the error was created.
type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err.Error())
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callerSource resolves the file:line of the caller skipping the given number of frames.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates an error with optional slog annotations and captures the caller location.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    nil,
		attrs:  attrs,
		source: callerSource(1),
	}
}

// NewSentinel creates an error suitable for package-level sentinel values.
// It captures no source location so that it can be declared in var blocks without
// polluting logs with the declaration site.
func NewSentinel(msg string) error {
	return &annotatedError{
		msg:    msg,
		err:    nil,
		attrs:  nil,
		source: "",
	}
}

// Wrap annotates err with a message and optional slog attributes. A nil err is
// allowed and results in an error with only the message.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: callerSource(1),
	}
}

// DecoratePanic converts a recovered panic value into an error whose source
// points at the panic site. A nil value returns nil.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}

	// Walk past the runtime panic machinery to find the panicking frame.
	pc := make([]uintptr, 32)
	n := runtime.Callers(1, pc)
	frames := runtime.CallersFrames(pc[:n])
	var (
		source    string
		seenPanic bool
	)
	for {
		frame, more := frames.Next()
		if seenPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			source = fmt.Sprintf("%s:%d", frame.File, frame.Line)
			break
		}
		if frame.Function == "runtime.gopanic" {
			seenPanic = true
		}
		if !more {
			break
		}
	}

	return &annotatedError{
		msg:    fmt.Sprintf("panic: %v", recovered),
		err:    nil,
		attrs:  nil,
		source: source,
	}
}

// SlogError collects the message, annotations, and source of the error chain into
// a single slog.Attr under the "error" group.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []any
		source      string
	)
	collect(err, &annotations, &source)

	attrs := []any{slog.String("message", err.Error())}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", attrs...)
}

// collect walks the error tree gathering annotations and the outermost source location.
func collect(err error, annotations *[]any, source *string) {
	if err == nil {
		return
	}

	var annotated *annotatedError
	if errors.As(err, &annotated) {
		for _, attr := range annotated.attrs {
			*annotations = append(*annotations, attr)
		}
		if *source == "" && annotated.source != "" {
			*source = annotated.source
		}
		collect(annotated.err, annotations, source)
		return
	}

	// Multi-errors from Join expose Unwrap() []error.
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collect(e, annotations, source)
		}
		return
	}

	collect(errors.Unwrap(err), annotations, source)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if available.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps a list of errors into a single error discarding nil values.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
