// Package domain holds the error taxonomy and value types shared by every
// aggregate in the catalogue.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NotFoundError reports an identifier that does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError creates a NotFoundError for the given entity and id.
func NewNotFoundError(entity string, id uint) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: strconv.FormatUint(uint64(id), 10)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConstraintKind distinguishes unique-index violations from referential ones.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintDependents ConstraintKind = "dependents"
)

// ConstraintViolationError reports a write rejected by a unique index, a
// foreign key, or a restrict-style dependency rule.
type ConstraintViolationError struct {
	Kind       ConstraintKind
	Constraint string
	Message    string
}

// NewConstraintViolationError creates a ConstraintViolationError.
func NewConstraintViolationError(kind ConstraintKind, constraint, message string) *ConstraintViolationError {
	return &ConstraintViolationError{Kind: kind, Constraint: constraint, Message: message}
}

func (e *ConstraintViolationError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("constraint violation (%s): %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("constraint violation (%s %s): %s", e.Kind, e.Constraint, e.Message)
}

// ConflictError reports a stale write: the row still exists but changed
// since the caller loaded it.
type ConflictError struct {
	Message string
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string {
	return "concurrency conflict: " + e.Message
}

// IdentityMismatchError reports a request whose path identifier disagrees
// with the identifier carried in its body.
type IdentityMismatchError struct {
	PathID uint
	BodyID uint
}

// NewIdentityMismatchError creates an IdentityMismatchError.
func NewIdentityMismatchError(pathID, bodyID uint) *IdentityMismatchError {
	return &IdentityMismatchError{PathID: pathID, BodyID: bodyID}
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("identity mismatch: path id %d, body id %d", e.PathID, e.BodyID)
}

// DuplicateLinkError reports a join row that already exists.
type DuplicateLinkError struct {
	Kind     string
	OwnerID  uint
	TargetID uint
}

// NewDuplicateLinkError creates a DuplicateLinkError.
func NewDuplicateLinkError(kind string, ownerID, targetID uint) *DuplicateLinkError {
	return &DuplicateLinkError{Kind: kind, OwnerID: ownerID, TargetID: targetID}
}

func (e *DuplicateLinkError) Error() string {
	return fmt.Sprintf("%s link %d -> %d already exists", e.Kind, e.OwnerID, e.TargetID)
}

// FieldError is a single field/message pair of a failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failing field of a draft so the caller can
// present all of them at once.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError holding a single field error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns e as an error, or nil when no field failed.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Field returns the message recorded for field, if any.
func (e *ValidationError) Field(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsConstraintViolation reports whether err is or wraps a ConstraintViolationError.
func IsConstraintViolation(err error) bool {
	var target *ConstraintViolationError
	return errors.As(err, &target)
}

// IsIdentityMismatch reports whether err is or wraps an IdentityMismatchError.
func IsIdentityMismatch(err error) bool {
	var target *IdentityMismatchError
	return errors.As(err, &target)
}

// IsDuplicateLink reports whether err is or wraps a DuplicateLinkError.
func IsDuplicateLink(err error) bool {
	var target *DuplicateLinkError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
