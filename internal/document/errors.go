package document

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NotFoundError reports an operation on an unknown document id. Resource
// names a missing part of an existing document, such as its file.
type NotFoundError struct {
	ID       int64
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s of document %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("document %d not found", e.ID)
}

// PermissionError reports an action denied by the document's capability flags.
type PermissionError struct {
	ID     int64
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s not permitted on document %d", e.Action, e.ID)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

func IsPermission(err error) bool {
	var v *PermissionError
	return errors.As(err, &v)
}
