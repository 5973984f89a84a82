package goKeep

import "context"

// Well-known AccountData fields the keeper interprets; everything else in
// the map is opaque profile data round-tripped as JSON.
const (
	// FieldAvatar holds the (possibly oversized) avatar string. It is
	// stored separately through the chunk store, never inside the profile
	// blob.
	FieldAvatar = "avatar"
	// FieldUserID holds the server-issued structured identifier.
	FieldUserID = "userId"
	// FieldIsAdmin holds the externally-carried admin flag. When both
	// FieldUserID and FieldIsAdmin are present they must agree with the
	// role embedded in the identifier or the record is rejected.
	FieldIsAdmin = "isAdmin"
)

// AccountData is the opaque profile payload persisted per account. The
// keeper only interprets the well-known fields above; the rest of the map
// belongs to the caller and survives storage byte-for-byte as JSON.
//
// AccountData instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AccountData map[string]any

// RemoteValidator asks the remote authority whether a remembered session
// is still good. It must return false (not an error) for an invalid token;
// errors and panics are treated as validation failure via the error path.
type RemoteValidator func(ctx context.Context, username, token string) (bool, error)

// ValidationResult is one entry of [Keeper.ValidateAll]'s output: the full
// outcome for a single remembered account, including evicted ones (with a
// nil Account), so callers can report results without re-querying.
type ValidationResult struct {
	Username string
	Valid    bool
	Account  AccountData
	Err      error
}

// ValidAccount is the filtered form produced by [FilterValid].
type ValidAccount struct {
	Username string
	Account  AccountData
}

// FilterValid keeps only the valid entries of a validation pass. Pure
// function; the input slice is not modified.
func FilterValid(results []ValidationResult) []ValidAccount {
	var valid []ValidAccount
	for _, r := range results {
		if r.Valid {
			valid = append(valid, ValidAccount{Username: r.Username, Account: r.Account})
		}
	}
	return valid
}
