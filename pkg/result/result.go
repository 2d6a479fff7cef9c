// Package result provides the success/failure carrier used below the
// controller façade. There is no implicit unwrap: reading the value of
// a failed Result, or the error of a successful one, panics. Call sites
// are expected to branch on IsOK first, or use ValueOr.
package result

// Void is the value type for operations that return nothing.
type Void struct{}

// Result holds either a value or an Error, never both. The zero value
// is not meaningful; construct via Ok, OkVoid, Err, or ErrFrom only.
type Result[T any] struct {
	value T
	err   Error
	ok    bool
}

// Ok wraps a value in a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// OkVoid is the successful Result for valueless operations.
func OkVoid() Result[Void] {
	return Ok(Void{})
}

// Err creates a failed Result from a kind and message.
func Err[T any](kind Kind, message string) Result[T] {
	return Result[T]{err: NewError(kind, message)}
}

// ErrFrom creates a failed Result carrying an existing Error, so a
// failure can cross layers without re-encoding.
func ErrFrom[T any](err Error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) IsOK() bool {
	return r.ok
}

// Value returns the contained value. Panics if the Result is a failure:
// that is a programming error at the call site, not a device condition.
func (r Result[T]) Value() T {
	if !r.ok {
		panic("result: Value called on error result: " + r.err.Description())
	}

	return r.value
}

// Err returns the contained Error. Panics if the Result is a success.
func (r Result[T]) Err() Error {
	if r.ok {
		panic("result: Err called on ok result")
	}

	return r.err
}

// ValueOr returns the value, or def when the Result is a failure. This
// is the only extraction that does not require branching first.
func (r Result[T]) ValueOr(def T) T {
	if !r.ok {
		return def
	}

	return r.value
}
