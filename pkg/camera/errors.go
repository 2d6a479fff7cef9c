package camera

import (
	"errors"
	"fmt"

	"github.com/openuvc/uvcctl/pkg/result"
)

// Error is the façade's typed error: the Result layer's kind plus the
// message and optional caller context. Callers recover by kind with
// errors.Is against the sentinels below instead of matching message
// strings. Raising an Error of some kind and returning an
// Err(kind, ...) at the Result layer are two views of the same failure.
type Error struct {
	Kind    result.Kind
	Message string
	Context string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Context != "" {
		msg += fmt.Sprintf(" (context: %s)", e.Context)
	}

	return msg
}

// Is matches any *Error of the same kind, so sentinel comparisons work
// regardless of message and context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Kind == e.Kind
}

// Sentinels, one per kind in the closed taxonomy. KindSuccess has no
// sentinel: it is never raised.
var (
	ErrDeviceNotFound       = &Error{Kind: result.KindDeviceNotFound, Message: "camera device not found or disconnected"}
	ErrDeviceBusy           = &Error{Kind: result.KindDeviceBusy, Message: "camera device is busy or in use"}
	ErrPropertyNotSupported = &Error{Kind: result.KindPropertyNotSupported, Message: "property not supported by device"}
	ErrInvalidValue         = &Error{Kind: result.KindInvalidValue, Message: "property value is out of range or invalid"}
	ErrPermissionDenied     = &Error{Kind: result.KindPermissionDenied, Message: "insufficient permissions to access device"}
	ErrSystem               = &Error{Kind: result.KindSystemError, Message: "system or platform error occurred"}
	ErrInvalidArgument      = &Error{Kind: result.KindInvalidArgument, Message: "invalid function argument provided"}
	ErrNotImplemented       = &Error{Kind: result.KindNotImplemented, Message: "feature not implemented on this platform"}
)

// FromResultError converts a Result-layer failure into the façade's
// typed error. The mapping is total: a kind outside the known table
// still yields a plain *Error rather than failing the bridge. A
// KindSuccess input is not an error and maps to nil.
func FromResultError(err result.Error, context string) error {
	if err.Code() == result.KindSuccess {
		return nil
	}

	return &Error{Kind: err.Code(), Message: err.Message(), Context: context}
}

// KindOf recovers the taxonomy kind from a façade error. nil maps to
// KindSuccess; a foreign error is a system error by definition.
func KindOf(err error) result.Kind {
	if err == nil {
		return result.KindSuccess
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return result.KindSystemError
}

// newError builds a façade-local failure without a Result behind it.
func newError(kind result.Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
