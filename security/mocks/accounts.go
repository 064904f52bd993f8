// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	repoerr "github.com/commercekit/platform/pkg/errors/repository"
	"github.com/commercekit/platform/security"
)

var _ security.AccountStore = (*accountStore)(nil)

type accountStore struct {
	mu     sync.Mutex
	byName map[string]security.Account

	// failCommit makes every Commit fail, for exercising partial-failure
	// paths.
	failCommit error
}

// NewAccountStore returns an in-memory account store.
func NewAccountStore() security.AccountStore {
	return &accountStore{byName: make(map[string]security.Account)}
}

// NewFailingAccountStore returns an in-memory account store whose sessions
// fail every Commit with the given error.
func NewFailingAccountStore(err error) security.AccountStore {
	return &accountStore{byName: make(map[string]security.Account), failCommit: err}
}

func (as *accountStore) Session(ctx context.Context) (security.AccountSession, error) {
	return &accountSession{
		store:   as,
		tracked: make(map[string]*security.Account),
	}, nil
}

var _ security.AccountSession = (*accountSession)(nil)

type accountSession struct {
	store   *accountStore
	tracked map[string]*security.Account
	added   []security.Account
	removed []string
}

func (s *accountSession) RetrieveByName(ctx context.Context, username string, level security.Detail) (*security.Account, error) {
	if tracked, ok := s.tracked[username]; ok {
		return tracked, nil
	}

	s.store.mu.Lock()
	stored, ok := s.store.byName[username]
	s.store.mu.Unlock()
	if !ok {
		return nil, repoerr.ErrNotFound
	}

	if level == security.ReducedDetail {
		stored = security.Account{Username: stored.Username, State: stored.State}
	}
	s.tracked[username] = &stored

	return &stored, nil
}

func (s *accountSession) Add(account security.Account) {
	s.added = append(s.added, account)
}

func (s *accountSession) Remove(account security.Account) {
	delete(s.tracked, account.Username)
	s.removed = append(s.removed, account.Username)
}

func (s *accountSession) Commit(ctx context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.failCommit != nil {
		return s.store.failCommit
	}

	for username, tracked := range s.tracked {
		stored, ok := s.store.byName[username]
		if !ok {
			continue
		}
		stored.State = tracked.State
		if tracked.AccountType != "" || tracked.MemberID != "" || tracked.StoreID != "" || tracked.IsAdministrator {
			stored.AccountType = tracked.AccountType
			stored.MemberID = tracked.MemberID
			stored.StoreID = tracked.StoreID
			stored.IsAdministrator = tracked.IsAdministrator
		}
		s.store.byName[username] = stored
	}

	for _, account := range s.added {
		if _, ok := s.store.byName[account.Username]; ok {
			return repoerr.ErrConflict
		}
		s.store.byName[account.Username] = account
	}
	s.added = nil

	for _, username := range s.removed {
		delete(s.store.byName, username)
	}
	s.removed = nil

	return nil
}

func (s *accountSession) Close() error {
	return nil
}
