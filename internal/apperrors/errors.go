package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the acting identity is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyTerminal indicates a join request was already approved or rejected and
// cannot be transitioned again.
var ErrAlreadyTerminal = errors.New("join request already finalized")
