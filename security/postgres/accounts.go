// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"

	"github.com/commercekit/platform/pkg/errors"
	repoerr "github.com/commercekit/platform/pkg/errors/repository"
	pgclient "github.com/commercekit/platform/pkg/postgres"
	"github.com/commercekit/platform/security"
	"github.com/jmoiron/sqlx"
)

var _ security.AccountStore = (*accountStore)(nil)

type accountStore struct {
	db *sqlx.DB
}

// NewAccountStore instantiates a PostgreSQL implementation of the account
// store. Each session runs inside its own transaction so that tracked
// changes, pending adds and pending removes land together on Commit.
func NewAccountStore(db *sqlx.DB) security.AccountStore {
	return &accountStore{db: db}
}

func (as *accountStore) Session(ctx context.Context) (security.AccountSession, error) {
	tx, err := as.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return &accountSession{
		tx:      tx,
		tracked: make(map[string]*trackedAccount),
	}, nil
}

// trackedAccount pairs the live record handed to the caller with a snapshot
// taken at retrieval time, so Commit only writes records that changed.
type trackedAccount struct {
	current  *security.Account
	snapshot security.Account
}

var _ security.AccountSession = (*accountSession)(nil)

type accountSession struct {
	tx      *sqlx.Tx
	tracked map[string]*trackedAccount
	added   []security.Account
	removed []string
	done    bool
}

type dbAccount struct {
	Username        string         `db:"username"`
	State           security.State `db:"state"`
	AccountType     sql.NullString `db:"account_type"`
	MemberID        sql.NullString `db:"member_id"`
	StoreID         sql.NullString `db:"store_id"`
	IsAdministrator bool           `db:"is_administrator"`
}

func toAccount(dba dbAccount) security.Account {
	return security.Account{
		Username:        dba.Username,
		State:           dba.State,
		AccountType:     dba.AccountType.String,
		MemberID:        dba.MemberID.String,
		StoreID:         dba.StoreID.String,
		IsAdministrator: dba.IsAdministrator,
	}
}

func (s *accountSession) RetrieveByName(ctx context.Context, username string, level security.Detail) (*security.Account, error) {
	if tracked, ok := s.tracked[username]; ok {
		return tracked.current, nil
	}

	q := `SELECT username, state, account_type, member_id, store_id, is_administrator FROM accounts WHERE username = $1`
	if level == security.ReducedDetail {
		q = `SELECT username, state FROM accounts WHERE username = $1`
	}

	dba := dbAccount{}
	if err := s.tx.QueryRowxContext(ctx, q, username).StructScan(&dba); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Wrap(repoerr.ErrNotFound, err)
		}
		return nil, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	account := toAccount(dba)
	s.tracked[username] = &trackedAccount{
		current:  &account,
		snapshot: account,
	}

	return &account, nil
}

func (s *accountSession) Add(account security.Account) {
	s.added = append(s.added, account)
}

func (s *accountSession) Remove(account security.Account) {
	delete(s.tracked, account.Username)
	s.removed = append(s.removed, account.Username)
}

func (s *accountSession) Commit(ctx context.Context) error {
	for _, tracked := range s.tracked {
		if *tracked.current == tracked.snapshot {
			continue
		}

		q := `UPDATE accounts SET state = $1, account_type = $2, member_id = $3, store_id = $4, is_administrator = $5
            WHERE username = $6`
		if _, err := s.tx.ExecContext(ctx, q, tracked.current.State, tracked.current.AccountType, tracked.current.MemberID, tracked.current.StoreID, tracked.current.IsAdministrator, tracked.current.Username); err != nil {
			return pgclient.HandleError(repoerr.ErrUpdateEntity, err)
		}
		tracked.snapshot = *tracked.current
	}

	for _, account := range s.added {
		q := `INSERT INTO accounts (username, state, account_type, member_id, store_id, is_administrator)
            VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := s.tx.ExecContext(ctx, q, account.Username, account.State, account.AccountType, account.MemberID, account.StoreID, account.IsAdministrator); err != nil {
			return pgclient.HandleError(repoerr.ErrCreateEntity, err)
		}
	}
	s.added = nil

	for _, username := range s.removed {
		q := `DELETE FROM accounts WHERE username = $1`
		if _, err := s.tx.ExecContext(ctx, q, username); err != nil {
			return pgclient.HandleError(repoerr.ErrRemoveEntity, err)
		}
	}
	s.removed = nil

	if err := s.tx.Commit(); err != nil {
		return errors.Wrap(repoerr.ErrFailedOpDB, err)
	}
	s.done = true

	return nil
}

func (s *accountSession) Close() error {
	if s.done {
		return nil
	}
	if err := s.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return nil
}
