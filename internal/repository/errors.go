// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: ErrForbidden means the
// caller does not own the resource, ErrTaskClaimed means a conditional task
// claim lost the race, ErrInsufficientPoints means a debit would drive a
// balance negative.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registration hits the unique email
// constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrTaskClaimed is returned when a conditional status update matched no row
// because the task is already claimed by a different collector. Handlers
// should translate this into an HTTP 409 response.
var ErrTaskClaimed = errors.New("task already claimed")

// ErrInsufficientPoints is returned when a points debit (redemption or a
// negative adjustment) would make the balance negative. The conditional
// UPDATE leaves the balance untouched in that case.
var ErrInsufficientPoints = errors.New("insufficient points")
