package errors

import "errors"

var (
	ErrInvalidResourceID    = errors.New("invalid resource id")
	ErrInvalidOwnerID       = errors.New("invalid owner id")
	ErrOwnerNotFound        = errors.New("no owner is recorded for this resource")
	ErrOwnerAlreadyAssigned = errors.New("resource already has an owner")
	ErrNotOwner             = errors.New("caller is not the current owner")
)
