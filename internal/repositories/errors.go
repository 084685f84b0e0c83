package repositories

import "errors"

// Sentinel errors shared by all repositories. Handlers map these to HTTP
// statuses; ErrDuplicate also covers unique-index losers of a write race.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
