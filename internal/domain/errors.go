package domain

import "errors"

// Failure taxonomy shared by use cases and the HTTP layer. Use cases wrap these with
// fmt.Errorf("%w: ...") and the handler package maps them to status codes.
var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateCredential = errors.New("email or username already registered")
	ErrUnauthenticated     = errors.New("could not validate credentials")
	ErrNotFound            = errors.New("not found")
	ErrInvalidAssignee     = errors.New("assignee does not belong to the project's tenant")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrTransientStore      = errors.New("store temporarily unavailable")
)
