package store

import "errors"

// Error kinds surfaced by the store. ErrNotFound and ErrConstraint are
// declared for callers that want strict modes; no current operation returns
// them (missing nodes auto-create, duplicate edges become upserts).
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConstraint = errors.New("constraint violation")
	ErrStorage    = errors.New("storage failure")
)
