// internal/services/errors.go
package services

import "errors"

// Caller mistakes. Handlers map these to 4xx responses; anything else that
// escapes a service is treated as an internal failure and logged.
var (
	ErrInvalidAssetType     = errors.New("file type is not allowed")
	ErrAssetTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrIncompleteSubmission = errors.New("both image and game file are required")
	ErrNotFound             = errors.New("resource not found")
	ErrForbidden            = errors.New("not authorized to perform this action")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidComment       = errors.New("comment cannot exceed 200 characters")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("user with this email already exists")
	ErrAccountNotVerified   = errors.New("account not verified, please contact an administrator")
	ErrAccountDisabled      = errors.New("account is disabled")
)
