package issues

import "fmt"

// ValidationError indicates malformed or missing required input. Mapped to
// 400 at the HTTP boundary.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError indicates a duplicate unique key. Mapped to 409.
type ConflictError struct {
	Header string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("an issue titled %q already exists", e.Header)
}

// NotFoundError indicates no record matched the given id. Mapped to 404.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no issue found with id %q", e.ID)
}
