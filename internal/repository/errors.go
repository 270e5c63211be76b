// Package repository loads the build-info document the service serves.
// Errors defined here let the caller tell a failed load apart from other
// startup failures and substitute the default record.
package repository

import (
    "errors"
    "fmt"
)

// ErrLoad matches every *LoadError via errors.Is.
var ErrLoad = errors.New("build info load failed")

// ErrUnsupportedFormat is wrapped by a LoadError when the document has an
// extension the loader does not know how to decode.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// LoadError is returned by TryLoad when the document is missing,
// unreadable or malformed.  Err carries the underlying cause.
type LoadError struct {
    Path string
    Err  error
}

func (e *LoadError) Error() string {
    return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrLoad) true for any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }
