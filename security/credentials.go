// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

import "context"

// Credential is the authentication-relevant record for one user, owned by
// the credential store.
type Credential struct {
	ID               string
	Username         string
	Email            string
	Phone            string
	PasswordHash     string
	SecurityStamp    string
	TwoFactorEnabled bool
	LockoutEnabled   bool
	Logins           []Login
}

// CredentialStore is the authoritative store for credential records. Every
// service operation acquires a session scoped to that operation and releases
// it on every exit path.
type CredentialStore interface {
	// Session acquires an operation-scoped handle to the store.
	Session(ctx context.Context) (CredentialSession, error)
}

// CredentialSession is a transient handle to the credential store. Mutating
// operations return the store's verdict as a Result: a success flag plus an
// ordered list of error descriptions.
type CredentialSession interface {
	// RetrieveByName retrieves the credential record for the given username.
	RetrieveByName(ctx context.Context, username string) (Credential, error)

	// RetrieveByID retrieves the credential record with the given ID.
	RetrieveByID(ctx context.Context, id string) (Credential, error)

	// RetrieveByEmail retrieves the credential record with the given email.
	RetrieveByEmail(ctx context.Context, email string) (Credential, error)

	// RetrieveByLogin retrieves the credential record bound to the given
	// external login.
	RetrieveByLogin(ctx context.Context, login Login) (Credential, error)

	// RetrieveAll retrieves all credential records.
	RetrieveAll(ctx context.Context) ([]Credential, error)

	// Create persists a new credential record. The password may be empty to
	// support external-login-only accounts.
	Create(ctx context.Context, cred Credential, password string) Result

	// Update overwrites the mutable fields of an existing credential record.
	Update(ctx context.Context, cred Credential) Result

	// Remove deletes the credential record with the given ID.
	Remove(ctx context.Context, id string) Result

	// ChangePassword validates oldPassword and replaces it with newPassword.
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) Result

	// ResetPassword replaces the password without validating the old one.
	ResetPassword(ctx context.Context, id, newPassword string) Result

	// ResetPasswordWithToken consumes a reset token and replaces the
	// password. A token is valid at most once.
	ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) Result

	// GenerateResetToken issues a single-use password reset token.
	GenerateResetToken(ctx context.Context, id string) (string, error)

	// Close releases the session.
	Close() error
}
