package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every error returned by a Store matches exactly one of
// these with errors.Is.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("entity not found")
	ErrConflict   = errors.New("entity already exists")
	ErrStore      = errors.New("store failure")
)

// Validation errors. Each one matches ErrValidation.
var (
	ErrInvalidParent        = &ValidationError{msg: "parent_id cannot equal node id"}
	ErrParentNotFound       = &ValidationError{msg: "parent node does not exist"}
	ErrParentNotContainer   = &ValidationError{msg: "parent_id must refer to a container node"}
	ErrUnknownTagIDs        = &ValidationError{msg: "unknown tag ids"}
	ErrEmptyLabel           = &ValidationError{msg: "label cannot be empty"}
	ErrEmptyName            = &ValidationError{msg: "name cannot be empty"}
	ErrInvalidContainerFlag = &ValidationError{msg: "is_container cannot be null"}
	ErrInvalidID            = &ValidationError{msg: "invalid entity id"}
)

// Lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// ValidationError is caller input that violates an invariant. It is never
// retried; the caller must correct the input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UnknownTagIDsError reports the requested tag ids that do not exist.
// IDs is sorted.
type UnknownTagIDsError struct {
	IDs []string
}

func (e *UnknownTagIDsError) Error() string {
	return fmt.Sprintf("unknown tag ids: [%s]", strings.Join(e.IDs, ", "))
}

// Is matches ErrUnknownTagIDs and ErrValidation.
func (e *UnknownTagIDsError) Is(target error) bool {
	return target == ErrUnknownTagIDs || target == ErrValidation
}
