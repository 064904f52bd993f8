// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

import "context"

// Account is the business-profile record for one user, keyed by username.
type Account struct {
	Username        string
	State           State
	AccountType     string
	MemberID        string
	StoreID         string
	IsAdministrator bool
}

// AccountStore is the authoritative store for account records.
type AccountStore interface {
	// Session acquires an operation-scoped handle to the store.
	Session(ctx context.Context) (AccountSession, error)
}

// AccountSession is a transient unit-of-work handle to the account store.
// Retrieved records are tracked by the session; tracked changes, pending
// adds and pending removes are persisted together by Commit. Closing a
// session without committing discards its pending changes.
type AccountSession interface {
	// RetrieveByName retrieves the account record for the given username at
	// the requested detail level. ReducedDetail loads only the key fields.
	// The returned record is tracked until the session is closed: mutations
	// made through the returned pointer are persisted on Commit.
	RetrieveByName(ctx context.Context, username string, level Detail) (*Account, error)

	// Add schedules a new account record for insertion.
	Add(account Account)

	// Remove schedules an account record for deletion.
	Remove(account Account)

	// Commit persists all pending changes made since the session was
	// acquired.
	Commit(ctx context.Context) error

	// Close releases the session, discarding uncommitted changes.
	Close() error
}
