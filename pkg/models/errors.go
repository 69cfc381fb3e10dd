package models

import (
	"errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrColumnNotFound means the mapping names a column the dataset lacks.
	ErrColumnNotFound = errors.New("column not found")
	// ErrEmptyDataset means there is no first row to read the budget from.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrParseFailure marks a single cell that could not be coerced. It is
	// logged and counted, never returned from the pipeline.
	ErrParseFailure = errors.New("parse failure")
	// ErrExportFailure means one artifact could not be produced.
	ErrExportFailure = errors.New("export failure")
)

// ColumnNotFoundError names the missing column and, when known, the role it
// was mapped to.
type ColumnNotFoundError struct {
	Column string
	Role   string
}

func (e *ColumnNotFoundError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s column %q not found in dataset", e.Role, e.Column)
	}
	return fmt.Sprintf("column %q not found in dataset", e.Column)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// ParseError describes one cell that failed coercion.
type ParseError struct {
	Column string
	Row    int
	Raw    string
	As     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d column %q: cannot parse %q as %s", e.Row, e.Column, e.Raw, e.As)
}

func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

// ExportError wraps the failure of one artifact.
type ExportError struct {
	Artifact string
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Artifact, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

func (e *ExportError) Is(target error) bool { return target == ErrExportFailure }
