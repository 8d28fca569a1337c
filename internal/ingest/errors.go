// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any record is created.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// PersistenceError rejects a request when the paper record itself cannot
// be created or reused. Failures after the record exists never surface as
// this type; they degrade to response warnings.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsPersistence reports whether err is a record create/reuse failure.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
