// Package status defines the error taxonomy shared by the playback engine and
// the library cache, and the non-fatal result type their operations return.
package status

import "errors"

// Sentinel errors classifying operation failures. Callers match them with
// errors.Is; none of them is fatal to the process.
var (
	// ErrNotFound: a referenced song/album/playlist id is not in the known set.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized: the operation requires a session that is absent.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable: the referenced media resource is missing or failed to load.
	ErrUnavailable = errors.New("unavailable")
	// ErrConflict: the mutation is redundant (e.g. song already in playlist).
	ErrConflict = errors.New("conflict")
	// ErrTransport: a gateway call failed (network error or non-2xx response).
	ErrTransport = errors.New("transport failure")
	// ErrReserved: the operation targets protected sample/demo data.
	ErrReserved = errors.New("reserved")
	// ErrInvalid: the request carries an empty or malformed argument.
	ErrInvalid = errors.New("invalid argument")
)

// Result is what every engine/cache operation hands back to the presentation
// layer: success or failure plus a human-readable message suitable for a
// transient notification. Failures carry one of the sentinel errors above.
type Result struct {
	OK      bool
	Message string
	Err     error
}

// Ok builds a success result.
func Ok(message string) Result {
	return Result{OK: true, Message: message}
}

// Fail builds a failure result classified by err.
func Fail(err error, message string) Result {
	return Result{OK: false, Message: message, Err: err}
}

// Is reports whether the result's error matches target.
func (r Result) Is(target error) bool {
	return errors.Is(r.Err, target)
}
