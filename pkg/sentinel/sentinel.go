package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, directories, and broker
// layers return these (optionally wrapped) so services can translate them
// into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the store or directory
// - ErrInvalidState: entity in wrong state for the requested operation
// - ErrUnavailable: broker or downstream service temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
