package models

import "errors"

// Sentinel errors callers branch on at the request boundary. Authorization
// failures are deliberately generic: the response never names the missing
// permission key.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInactiveAccount = errors.New("account inactive")
	ErrAlreadyAssigned = errors.New("task already assigned")
	ErrAlreadyDecided  = errors.New("request already decided")
)
