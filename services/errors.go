package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engines. Controllers map these onto HTTP
// statuses; anything else is treated as an unexpected failure.
var (
	ErrHobbyNotFound      = errors.New("hobby not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrParentPostNotFound = errors.New("parent post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoHobbies          = errors.New("no hobbies found")
	ErrContentRequired    = errors.New("content is required")
	ErrContentTooLong     = errors.New("content must be between 1 and 1000 characters")
)

// ConstraintError reports a write the store rejected due to referential
// rules. It is kept distinct from the not-found family so callers can tell a
// partially applied cascade from a missing row.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s rejected by store constraints: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsConstraint reports whether err is a store constraint violation.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
