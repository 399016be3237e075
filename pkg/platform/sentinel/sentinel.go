package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and clients return these
// (optionally wrapped) so services can translate them into domain errors.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	// ErrUnavailable marks a collaborator that is reachable but not ready
	// to serve, or temporarily down.
	ErrUnavailable = errors.New("unavailable")
)
