package loader

import (
	"errors"
	"fmt"

	"github.com/j-veylop/catalog-eda/internal/models"
)

// Sentinel errors identifying the kind of a LoadError.
var (
	ErrNotFound = errors.New("dataset file not found")
	ErrSchema   = errors.New("dataset does not match the expected schema")
	ErrRead     = errors.New("dataset could not be read")
)

// LoadError is returned when the dataset cannot be loaded at all.
// Kind is one of ErrNotFound, ErrSchema or ErrRead.
type LoadError struct {
	Kind error
	Err  error
	Path string
}

func (e *LoadError) Error() string {
	where := e.Path
	if where == "" {
		where = "<input>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", where, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", where, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FieldParseWarning records a value that could not be parsed and was
// treated as missing. Row is 1-based and counts data rows only.
type FieldParseWarning struct {
	Field  models.Field
	Value  string
	Reason string
	Row    int
}

func (w FieldParseWarning) String() string {
	return fmt.Sprintf("row %d: %s=%q: %s", w.Row, w.Field, w.Value, w.Reason)
}
