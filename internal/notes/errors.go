package notes

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a reference to a note id that does not resolve.
// Get itself returns (nil, nil) for a missing note; callers that require the
// note wrap this sentinel.
var ErrNotFound = errors.New("note not found")

// StorageError is a fault in the underlying database. It is not recoverable
// by the caller; the operation that produced it failed as a whole.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// FileError is a per-file filesystem fault during import or export.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// storageErr wraps err as a StorageError, passing nil through.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsFileError reports whether err is (or wraps) a FileError.
func IsFileError(err error) bool {
	var fe *FileError
	return errors.As(err, &fe)
}
