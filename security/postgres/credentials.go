// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"time"

	platform "github.com/commercekit/platform"
	"github.com/commercekit/platform/pkg/errors"
	repoerr "github.com/commercekit/platform/pkg/errors/repository"
	pgclient "github.com/commercekit/platform/pkg/postgres"
	"github.com/commercekit/platform/security"
	"github.com/jmoiron/sqlx"
)

const resetTokenTTL = 24 * time.Hour

// Fixed verdicts reported by the password operations.
const (
	msgIncorrectPassword = "incorrect password."
	msgInvalidResetToken = "invalid or expired reset token."
)

var _ security.CredentialStore = (*credentialStore)(nil)

type credentialStore struct {
	db         *sqlx.DB
	hasher     security.Hasher
	idProvider platform.IDProvider
}

// NewCredentialStore instantiates a PostgreSQL implementation of the
// credential store. The hasher owns password hashing; the identity provider
// supplies security stamps and reset tokens.
func NewCredentialStore(db *sqlx.DB, hasher security.Hasher, idp platform.IDProvider) security.CredentialStore {
	return &credentialStore{
		db:         db,
		hasher:     hasher,
		idProvider: idp,
	}
}

func (cs *credentialStore) Session(ctx context.Context) (security.CredentialSession, error) {
	conn, err := cs.db.Connx(ctx)
	if err != nil {
		return nil, errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return &credentialSession{
		conn:       conn,
		hasher:     cs.hasher,
		idProvider: cs.idProvider,
	}, nil
}

var _ security.CredentialSession = (*credentialSession)(nil)

// credentialSession pins one pooled connection for the duration of the
// owning service operation.
type credentialSession struct {
	conn       *sqlx.Conn
	hasher     security.Hasher
	idProvider platform.IDProvider
}

type dbCredential struct {
	ID               string         `db:"id"`
	Username         string         `db:"username"`
	Email            string         `db:"email"`
	Phone            sql.NullString `db:"phone"`
	PasswordHash     sql.NullString `db:"password_hash"`
	SecurityStamp    sql.NullString `db:"security_stamp"`
	TwoFactorEnabled bool           `db:"two_factor_enabled"`
	LockoutEnabled   bool           `db:"lockout_enabled"`
	CreatedAt        sql.NullTime   `db:"created_at"`
	UpdatedAt        sql.NullTime   `db:"updated_at"`
}

type dbLogin struct {
	Provider     string `db:"provider"`
	ProviderKey  string `db:"provider_key"`
	CredentialID string `db:"credential_id"`
}

func toCredential(dbc dbCredential, logins []security.Login) security.Credential {
	return security.Credential{
		ID:               dbc.ID,
		Username:         dbc.Username,
		Email:            dbc.Email,
		Phone:            dbc.Phone.String,
		PasswordHash:     dbc.PasswordHash.String,
		SecurityStamp:    dbc.SecurityStamp.String,
		TwoFactorEnabled: dbc.TwoFactorEnabled,
		LockoutEnabled:   dbc.LockoutEnabled,
		Logins:           logins,
	}
}

const credentialColumns = `id, username, email, phone, password_hash, security_stamp, two_factor_enabled, lockout_enabled, created_at, updated_at`

func (s *credentialSession) RetrieveByName(ctx context.Context, username string) (security.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM credentials WHERE username = $1`
	return s.retrieveOne(ctx, q, username)
}

func (s *credentialSession) RetrieveByID(ctx context.Context, id string) (security.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	return s.retrieveOne(ctx, q, id)
}

func (s *credentialSession) RetrieveByEmail(ctx context.Context, email string) (security.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM credentials WHERE email = $1`
	return s.retrieveOne(ctx, q, email)
}

func (s *credentialSession) RetrieveByLogin(ctx context.Context, login security.Login) (security.Credential, error) {
	q := `SELECT c.id, c.username, c.email, c.phone, c.password_hash, c.security_stamp, c.two_factor_enabled, c.lockout_enabled, c.created_at, c.updated_at
        FROM credentials c JOIN credential_logins l ON l.credential_id = c.id
        WHERE l.provider = $1 AND l.provider_key = $2`
	return s.retrieveOne(ctx, q, login.Provider, login.ProviderKey)
}

func (s *credentialSession) RetrieveAll(ctx context.Context) ([]security.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM credentials`

	rows, err := s.conn.QueryxContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var creds []security.Credential
	for rows.Next() {
		dbc := dbCredential{}
		if err := rows.StructScan(&dbc); err != nil {
			return nil, errors.Wrap(repoerr.ErrViewEntity, err)
		}
		creds = append(creds, toCredential(dbc, nil))
	}

	return creds, rows.Err()
}

func (s *credentialSession) Create(ctx context.Context, cred security.Credential, password string) security.Result {
	hash := ""
	if password != "" {
		var err error
		if hash, err = s.hasher.Hash(password); err != nil {
			return security.Fail(err.Error())
		}
	}

	stamp, err := s.idProvider.ID()
	if err != nil {
		return security.Fail(err.Error())
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return security.Fail(err.Error())
	}

	q := `INSERT INTO credentials (id, username, email, phone, password_hash, security_stamp, two_factor_enabled, lockout_enabled, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.ExecContext(ctx, q, cred.ID, cred.Username, cred.Email, cred.Phone, hash, stamp, cred.TwoFactorEnabled, cred.LockoutEnabled, time.Now().UTC()); err != nil {
		tx.Rollback()
		return security.Fail(pgclient.HandleError(repoerr.ErrCreateEntity, err).Error())
	}

	for _, login := range cred.Logins {
		q := `INSERT INTO credential_logins (provider, provider_key, credential_id) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, q, login.Provider, login.ProviderKey, cred.ID); err != nil {
			tx.Rollback()
			return security.Fail(pgclient.HandleError(repoerr.ErrCreateEntity, err).Error())
		}
	}

	if err := tx.Commit(); err != nil {
		return security.Fail(err.Error())
	}

	return security.OK()
}

func (s *credentialSession) Update(ctx context.Context, cred security.Credential) security.Result {
	q := `UPDATE credentials SET email = $1, phone = $2, two_factor_enabled = $3, lockout_enabled = $4, updated_at = $5
        WHERE id = $6`

	res, err := s.conn.ExecContext(ctx, q, cred.Email, cred.Phone, cred.TwoFactorEnabled, cred.LockoutEnabled, time.Now().UTC(), cred.ID)
	if err != nil {
		return security.Fail(pgclient.HandleError(repoerr.ErrUpdateEntity, err).Error())
	}
	if count, err := res.RowsAffected(); err == nil && count == 0 {
		return security.Fail(repoerr.ErrNotFound.Error())
	}

	return security.OK()
}

func (s *credentialSession) Remove(ctx context.Context, id string) security.Result {
	q := `DELETE FROM credentials WHERE id = $1`

	if _, err := s.conn.ExecContext(ctx, q, id); err != nil {
		return security.Fail(pgclient.HandleError(repoerr.ErrRemoveEntity, err).Error())
	}

	return security.OK()
}

func (s *credentialSession) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) security.Result {
	var hash sql.NullString
	q := `SELECT password_hash FROM credentials WHERE id = $1`
	if err := s.conn.QueryRowxContext(ctx, q, id).Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return security.Fail(repoerr.ErrNotFound.Error())
		}
		return security.Fail(errors.Wrap(repoerr.ErrViewEntity, err).Error())
	}

	if err := s.hasher.Compare(oldPassword, hash.String); err != nil {
		return security.Fail(msgIncorrectPassword)
	}

	return s.replacePassword(ctx, id, newPassword)
}

func (s *credentialSession) ResetPassword(ctx context.Context, id, newPassword string) security.Result {
	return s.replacePassword(ctx, id, newPassword)
}

func (s *credentialSession) ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) security.Result {
	// Tokens are single use: the consuming delete and the expiry check
	// happen in one statement.
	q := `DELETE FROM reset_tokens WHERE credential_id = $1 AND token = $2 AND expires_at > $3`

	res, err := s.conn.ExecContext(ctx, q, id, token, time.Now().UTC())
	if err != nil {
		return security.Fail(errors.Wrap(repoerr.ErrFailedOpDB, err).Error())
	}
	if count, err := res.RowsAffected(); err != nil || count == 0 {
		return security.Fail(msgInvalidResetToken)
	}

	return s.replacePassword(ctx, id, newPassword)
}

func (s *credentialSession) GenerateResetToken(ctx context.Context, id string) (string, error) {
	token, err := s.idProvider.ID()
	if err != nil {
		return "", err
	}

	q := `INSERT INTO reset_tokens (credential_id, token, expires_at) VALUES ($1, $2, $3)
        ON CONFLICT (credential_id) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`
	if _, err := s.conn.ExecContext(ctx, q, id, token, time.Now().UTC().Add(resetTokenTTL)); err != nil {
		return "", pgclient.HandleError(repoerr.ErrCreateEntity, err)
	}

	return token, nil
}

func (s *credentialSession) Close() error {
	return s.conn.Close()
}

func (s *credentialSession) retrieveOne(ctx context.Context, query string, args ...interface{}) (security.Credential, error) {
	dbc := dbCredential{}
	if err := s.conn.QueryRowxContext(ctx, query, args...).StructScan(&dbc); err != nil {
		if err == sql.ErrNoRows {
			return security.Credential{}, errors.Wrap(repoerr.ErrNotFound, err)
		}
		return security.Credential{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	logins, err := s.retrieveLogins(ctx, dbc.ID)
	if err != nil {
		return security.Credential{}, err
	}

	return toCredential(dbc, logins), nil
}

func (s *credentialSession) retrieveLogins(ctx context.Context, credentialID string) ([]security.Login, error) {
	q := `SELECT provider, provider_key, credential_id FROM credential_logins WHERE credential_id = $1`

	rows, err := s.conn.QueryxContext(ctx, q, credentialID)
	if err != nil {
		return nil, errors.Wrap(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var logins []security.Login
	for rows.Next() {
		dbl := dbLogin{}
		if err := rows.StructScan(&dbl); err != nil {
			return nil, errors.Wrap(repoerr.ErrViewEntity, err)
		}
		logins = append(logins, security.Login{Provider: dbl.Provider, ProviderKey: dbl.ProviderKey})
	}

	return logins, rows.Err()
}

func (s *credentialSession) replacePassword(ctx context.Context, id, newPassword string) security.Result {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return security.Fail(err.Error())
	}

	// The security stamp is rotated on every password change so that
	// previously issued artifacts bound to it become invalid.
	stamp, err := s.idProvider.ID()
	if err != nil {
		return security.Fail(err.Error())
	}

	q := `UPDATE credentials SET password_hash = $1, security_stamp = $2, updated_at = $3 WHERE id = $4`
	res, err := s.conn.ExecContext(ctx, q, hash, stamp, time.Now().UTC(), id)
	if err != nil {
		return security.Fail(pgclient.HandleError(repoerr.ErrUpdateEntity, err).Error())
	}
	if count, err := res.RowsAffected(); err == nil && count == 0 {
		return security.Fail(repoerr.ErrNotFound.Error())
	}

	return security.OK()
}
