package interview

import "errors"

// Sentinel errors the HTTP layer maps to status codes. Provider failures
// come back as *llm.ProviderError and persistence failures as wrapped
// database errors; everything else here is a caller mistake.
var (
	// ErrNotFound means the addressed session, resume or evaluation does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the resource exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState means the operation is not legal for the session's
	// current status or round.
	ErrInvalidState = errors.New("invalid state")
)
