package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned for unknown sessions and entries.
var ErrNotFound = errors.New("not found")

// ValidationError carries per-field messages. It is returned, never panicked,
// and always leaves the session editable.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CollaboratorError wraps a failure of something outside the pipeline: the
// browser surface, the persistence endpoint or a reference-data file.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// PreconditionError blocks progression without side effects.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

var (
	ErrDeclarationRequired = &PreconditionError{Message: "You must agree to the declaration before previewing the resume."}
	ErrNoPreview           = &PreconditionError{Message: "Please preview the resume first before downloading."}
	ErrExportInProgress    = &PreconditionError{Message: "An export is already in progress."}
)
