package jsontree

import (
	"fmt"
	"os"
)

// FileError wraps a parse or read failure with the originating file path.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to load json file %q: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// LoadFile reads and parses the file at path, picking the dialect from the
// file suffix. Failures are wrapped in a *FileError carrying the path.
func LoadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	v, err := Decode(data, DialectForPath(path))
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return v, nil
}
