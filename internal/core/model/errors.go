package model

import "errors"

// Domain error taxonomy. Per-event failures (ErrUnknownUser, ErrMalformedEvent)
// are absorbed into sync counts; the rest surface to callers and are matched
// with errors.Is.
var (
	// ErrDeviceUnavailable means the terminal connection could not be
	// established. Fatal to the current sync attempt, no state mutated.
	ErrDeviceUnavailable = errors.New("attendance device unavailable")

	// ErrUnknownUser marks an event whose device user id is not enrolled.
	ErrUnknownUser = errors.New("event references unknown user")

	// ErrMalformedEvent marks a single unparseable device event.
	ErrMalformedEvent = errors.New("malformed device event")

	// ErrPersistence wraps a store write failure for one ledger entry.
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidWorkingDays means contracted working hours for the month are
	// zero or negative, so no hourly rate can be derived.
	ErrInvalidWorkingDays = errors.New("contracted working days must be positive")

	// ErrStateConflict means an operation would overwrite or re-run against a
	// salary record that already left draft status.
	ErrStateConflict = errors.New("salary record is no longer a draft")

	// ErrSyncInFlight means another sync run against the same device is
	// already executing. Runs are never interleaved.
	ErrSyncInFlight = errors.New("sync already in flight for device")

	// ErrUserExists means a registration reused an existing unique id.
	ErrUserExists = errors.New("user with this id already exists")

	// ErrNotFound is returned by lookups that matched nothing.
	ErrNotFound = errors.New("not found")
)
