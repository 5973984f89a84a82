package goKeep

import "errors"

var (
	// ErrUsernameEmpty is an exported constant or variable used by the account keeper.
	ErrUsernameEmpty = errors.New("username empty")
	// ErrTokenEmpty is an exported constant or variable used by the account keeper.
	ErrTokenEmpty = errors.New("token empty")
	// ErrAccountNotFound is an exported constant or variable used by the account keeper.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTokenWriteFailed is returned when the credential entry could not be
	// persisted; credentials are never silently dropped.
	ErrTokenWriteFailed = errors.New("token write failed")
	// ErrProfileWriteFailed is returned when the profile blob could not be
	// persisted.
	ErrProfileWriteFailed = errors.New("profile write failed")
	// ErrProfileCorrupt is returned when a stored profile blob does not
	// decode as JSON.
	ErrProfileCorrupt = errors.New("profile blob corrupt")
	// ErrRosterWriteFailed is an exported constant or variable used by the account keeper.
	ErrRosterWriteFailed = errors.New("roster write failed")
	// ErrIdentifierInvalid is returned when account data carries an
	// identifier that fails shape or checksum validation.
	ErrIdentifierInvalid = errors.New("account identifier invalid")
	// ErrRoleMismatch is returned when the admin flag carried alongside an
	// identifier disagrees with the role embedded in the identifier. The
	// record is rejected rather than trusting either side.
	ErrRoleMismatch = errors.New("admin flag disagrees with identifier role")
	// ErrTokenExpired is reported for sessions evicted by the local token
	// expiry prescreen without a remote round-trip.
	ErrTokenExpired = errors.New("token expired")
	// ErrValidatorPanic is reported for sessions whose remote validation
	// callback panicked; the pass recovers and continues.
	ErrValidatorPanic = errors.New("remote validator panicked")
)
