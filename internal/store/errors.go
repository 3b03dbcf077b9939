package store

import "fmt"

// ValidationError reports a required text field that is empty or missing.
type ValidationError struct {
	Entity string
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s is required", e.Entity, e.Field)
}

// NotFoundError reports a lookup of an id that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ReferenceError reports a foreign key pointing at a missing row.
type ReferenceError struct {
	Entity string
	ID     uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referenced %s %d does not exist", e.Entity, e.ID)
}
