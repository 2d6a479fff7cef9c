package result

import "fmt"

// Kind classifies an operation failure. The set is closed: backends and
// local validation may only produce the kinds below.
type Kind int

const (
	// KindSuccess is the non-error sentinel. It never appears inside an
	// error Result and is never surfaced to callers as a failure.
	KindSuccess Kind = iota
	KindDeviceNotFound
	KindDeviceBusy
	KindPropertyNotSupported
	KindInvalidValue
	KindPermissionDenied
	KindSystemError
	KindInvalidArgument
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindDeviceNotFound:
		return "device_not_found"
	case KindDeviceBusy:
		return "device_busy"
	case KindPropertyNotSupported:
		return "property_not_supported"
	case KindInvalidValue:
		return "invalid_value"
	case KindPermissionDenied:
		return "permission_denied"
	case KindSystemError:
		return "system_error"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) IsValid() bool {
	return k >= KindSuccess && k <= KindNotImplemented
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := KindSuccess; k <= KindNotImplemented; k++ {
		if k.String() == s {
			return k, nil
		}
	}

	return KindSystemError, fmt.Errorf("unknown error kind %q", s)
}

// Error is a structured failure: a closed-taxonomy kind plus a
// human-readable message. Immutable once constructed.
type Error struct {
	kind    Kind
	message string
}

func NewError(kind Kind, message string) Error {
	return Error{kind: kind, message: message}
}

func Errorf(kind Kind, format string, args ...any) Error {
	return Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (e Error) Code() Kind {
	return e.kind
}

func (e Error) Message() string {
	return e.message
}

// Description renders the error as "kind: message".
func (e Error) Description() string {
	if e.message == "" {
		return e.kind.String()
	}

	return fmt.Sprintf("%s: %s", e.kind, e.message)
}
