package repositories

import "errors"

// Sentinel errors returned by repositories. Handlers map these onto the
// HTTP error taxonomy; anything else becomes a generic 500.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate unique field")
	ErrAlreadyFollowing = errors.New("already following")
	ErrCodeInvalid      = errors.New("confirmation code invalid")
	ErrCodeUsed         = errors.New("confirmation code already used")
	ErrNotOwner         = errors.New("not the owning creator")
)
