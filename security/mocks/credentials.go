// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package mocks provides in-memory store implementations used in tests.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	repoerr "github.com/commercekit/platform/pkg/errors/repository"
	"github.com/commercekit/platform/security"
)

const msgIncorrectPassword = "incorrect password."

var _ security.CredentialStore = (*credentialStore)(nil)

type resetToken struct {
	token   string
	expires time.Time
}

type credentialStore struct {
	mu        sync.Mutex
	counter   int
	byID      map[string]security.Credential
	passwords map[string]string
	tokens    map[string]resetToken
}

// NewCredentialStore returns an in-memory credential store. Passwords are
// kept in plain text and compared directly; hashes are synthetic.
func NewCredentialStore() security.CredentialStore {
	return &credentialStore{
		byID:      make(map[string]security.Credential),
		passwords: make(map[string]string),
		tokens:    make(map[string]resetToken),
	}
}

func (cs *credentialStore) Session(ctx context.Context) (security.CredentialSession, error) {
	return &credentialSession{store: cs}, nil
}

var _ security.CredentialSession = (*credentialSession)(nil)

type credentialSession struct {
	store *credentialStore
}

func (s *credentialSession) RetrieveByName(ctx context.Context, username string) (security.Credential, error) {
	return s.retrieve(func(c security.Credential) bool { return c.Username == username })
}

func (s *credentialSession) RetrieveByID(ctx context.Context, id string) (security.Credential, error) {
	return s.retrieve(func(c security.Credential) bool { return c.ID == id })
}

func (s *credentialSession) RetrieveByEmail(ctx context.Context, email string) (security.Credential, error) {
	return s.retrieve(func(c security.Credential) bool { return c.Email == email })
}

func (s *credentialSession) RetrieveByLogin(ctx context.Context, login security.Login) (security.Credential, error) {
	return s.retrieve(func(c security.Credential) bool {
		for _, l := range c.Logins {
			if l.Provider == login.Provider && l.ProviderKey == login.ProviderKey {
				return true
			}
		}
		return false
	})
}

func (s *credentialSession) RetrieveAll(ctx context.Context) ([]security.Credential, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	creds := make([]security.Credential, 0, len(s.store.byID))
	for _, c := range s.store.byID {
		creds = append(creds, c)
	}

	return creds, nil
}

func (s *credentialSession) Create(ctx context.Context, cred security.Credential, password string) security.Result {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, existing := range s.store.byID {
		if existing.ID == cred.ID || existing.Username == cred.Username || existing.Email == cred.Email {
			return security.Fail(repoerr.ErrConflict.Error())
		}
	}

	s.store.counter++
	if password != "" {
		cred.PasswordHash = fmt.Sprintf("hash-%s", password)
		s.store.passwords[cred.ID] = password
	}
	cred.SecurityStamp = fmt.Sprintf("stamp-%d", s.store.counter)
	s.store.byID[cred.ID] = cred

	return security.OK()
}

func (s *credentialSession) Update(ctx context.Context, cred security.Credential) security.Result {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	stored, ok := s.store.byID[cred.ID]
	if !ok {
		return security.Fail(repoerr.ErrNotFound.Error())
	}

	stored.Email = cred.Email
	stored.Phone = cred.Phone
	stored.TwoFactorEnabled = cred.TwoFactorEnabled
	stored.LockoutEnabled = cred.LockoutEnabled
	stored.Logins = cred.Logins
	s.store.byID[cred.ID] = stored

	return security.OK()
}

func (s *credentialSession) Remove(ctx context.Context, id string) security.Result {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	delete(s.store.byID, id)
	delete(s.store.passwords, id)
	delete(s.store.tokens, id)

	return security.OK()
}

func (s *credentialSession) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) security.Result {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.byID[id]; !ok {
		return security.Fail(repoerr.ErrNotFound.Error())
	}
	if s.store.passwords[id] != oldPassword {
		return security.Fail(msgIncorrectPassword)
	}

	s.replacePassword(id, newPassword)

	return security.OK()
}

func (s *credentialSession) ResetPassword(ctx context.Context, id, newPassword string) security.Result {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.byID[id]; !ok {
		return security.Fail(repoerr.ErrNotFound.Error())
	}

	s.replacePassword(id, newPassword)

	return security.OK()
}

func (s *credentialSession) ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) security.Result {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	stored, ok := s.store.tokens[id]
	if !ok || stored.token != token || time.Now().After(stored.expires) {
		return security.Fail("invalid or expired reset token.")
	}
	delete(s.store.tokens, id)

	s.replacePassword(id, newPassword)

	return security.OK()
}

func (s *credentialSession) GenerateResetToken(ctx context.Context, id string) (string, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.byID[id]; !ok {
		return "", repoerr.ErrNotFound
	}

	s.store.counter++
	token := fmt.Sprintf("token-%d", s.store.counter)
	s.store.tokens[id] = resetToken{token: token, expires: time.Now().Add(24 * time.Hour)}

	return token, nil
}

func (s *credentialSession) Close() error {
	return nil
}

func (s *credentialSession) retrieve(match func(security.Credential) bool) (security.Credential, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, c := range s.store.byID {
		if match(c) {
			return c, nil
		}
	}

	return security.Credential{}, repoerr.ErrNotFound
}

// replacePassword assumes the store lock is held.
func (s *credentialSession) replacePassword(id, newPassword string) {
	s.store.counter++
	stored := s.store.byID[id]
	stored.PasswordHash = fmt.Sprintf("hash-%s", newPassword)
	stored.SecurityStamp = fmt.Sprintf("stamp-%d", s.store.counter)
	s.store.byID[id] = stored
	s.store.passwords[id] = newPassword
}
