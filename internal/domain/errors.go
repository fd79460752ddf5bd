package domain

import "errors"

// Failure kinds surfaced by the services. Handlers map these onto HTTP status
// codes; services wrap them with context via fmt.Errorf and %w. Conditions
// like "already a member" or "no pending request" are reported as boolean
// results, not errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)
