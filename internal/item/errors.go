package item

import (
	"errors"
	"fmt"
)

// Sentinel errors for loading item data.
var (
	// ErrNoDataDir indicates no data directory was given, or the folder prompt was cancelled.
	ErrNoDataDir = errors.New("no item data directory selected")

	// ErrMalformed indicates a data file is not valid JSON.
	ErrMalformed = errors.New("malformed JSON")

	// ErrNotArray indicates a data file's top-level value is not an array.
	ErrNotArray = errors.New("data file is not a JSON array")

	// ErrNotObject indicates an array element is not an object.
	ErrNotObject = errors.New("item record is not a JSON object")
)

// LoadError ties a load failure to the path that caused it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
