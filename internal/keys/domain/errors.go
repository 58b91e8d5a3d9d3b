package domain

import (
	"github.com/ticketops/cardvault/internal/errors"
)

// Ephemeral key error definitions.
var (
	// ErrKeyNotFound indicates no ephemeral key exists with the given ID.
	//
	// HTTP Status: 404 Not Found
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "encryption key not found")

	// ErrKeyExpired indicates the key's validity window has passed.
	//
	// HTTP Status: 410 Gone
	ErrKeyExpired = errors.Wrap(errors.ErrGone, "encryption key expired")

	// ErrKeyAlreadyUsed indicates the key was already claimed once.
	//
	// Single use is enforced atomically at the database level, so concurrent
	// claims of the same key yield exactly one winner.
	//
	// HTTP Status: 410 Gone
	ErrKeyAlreadyUsed = errors.Wrap(errors.ErrGone, "encryption key already used")

	// ErrKeyAccessDenied indicates the caller does not own the key.
	//
	// HTTP Status: 403 Forbidden
	ErrKeyAccessDenied = errors.Wrap(errors.ErrForbidden, "encryption key belongs to another account")
)
