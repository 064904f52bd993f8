// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"context"
	"sort"
	"strings"

	platform "github.com/commercekit/platform"
	"github.com/commercekit/platform/pkg/errors"
	repoerr "github.com/commercekit/platform/pkg/errors/repository"
	svcerr "github.com/commercekit/platform/pkg/errors/service"
)

// Fixed result messages reported by the mutating operations.
const (
	// MsgUserNotFound is reported when the credential record is absent.
	MsgUserNotFound = "user not found."

	// MsgUserNotEditable is reported when the account is protected by policy.
	MsgUserNotEditable = "it is forbidden to edit this user."

	// MsgAccountNotFound is reported when the credential record exists but
	// the account record does not.
	MsgAccountNotFound = "account not found."
)

var (
	// ErrRecoveryToken indicates error in generating password recovery token.
	ErrRecoveryToken = errors.New("failed to generate password recovery token")

	errNilUser = errors.New("nil user provided")
)

// Service specifies an API that must be fullfiled by the security service
// implementation, and all of its decorators (e.g. logging & metrics).
//
// Every operation opens transient store sessions, performs its store calls
// in a fixed order and releases the sessions before returning. Within one
// create or update the credential-store write always happens before the
// account-store write; there is no cross-store transaction, so a failure of
// the second step leaves the first one committed.
type Service interface {
	// UserByName retrieves the user with the given username at the requested
	// detail level. A missing credential record yields a nil user, not an
	// error.
	UserByName(ctx context.Context, name string, level Detail) (*User, error)

	// UserByID retrieves the user with the given credential-record ID.
	UserByID(ctx context.Context, id string, level Detail) (*User, error)

	// UserByEmail retrieves the user with the given email.
	UserByEmail(ctx context.Context, email string, level Detail) (*User, error)

	// UserByLogin retrieves the user bound to the given external login.
	UserByLogin(ctx context.Context, login Login, level Detail) (*User, error)

	// CreateUser writes the credential record first, then the account record
	// with its state forced to approved.
	CreateUser(ctx context.Context, user *User) (Result, error)

	// UpdateUser patches the credential record, then patches the account
	// record, reporting a distinct failure when the account record is
	// missing.
	UpdateUser(ctx context.Context, user *User) (Result, error)

	// DeleteUsers removes each named user from both stores, best effort per
	// name. Protected and unknown names are skipped silently.
	DeleteUsers(ctx context.Context, names []string) error

	// ChangePassword delegates the password change to the credential store,
	// which validates the old password.
	ChangePassword(ctx context.Context, name, oldPassword, newPassword string) (Result, error)

	// ResetPassword replaces the named user's password without a token.
	ResetPassword(ctx context.Context, name, newPassword string) (Result, error)

	// ResetPasswordWithToken consumes a reset token and replaces the
	// password of the user with the given ID.
	ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) (Result, error)

	// GenerateResetToken issues a single-use password reset token for the
	// user with the given ID.
	GenerateResetToken(ctx context.Context, id string) (string, error)

	// SearchUsers filters the credential set by username substring, orders
	// by username ascending and pages the result.
	SearchUsers(ctx context.Context, req SearchRequest) (SearchResponse, error)

	// GenerateAPIAccount generates a new API credential pair of the given
	// type. No store interaction happens.
	GenerateAPIAccount(typ APIAccountType) (APIAccount, error)
}

var _ Service = (*securityService)(nil)

type securityService struct {
	credentials CredentialStore
	accounts    AccountStore
	apiAccounts APIAccountProvider
	policy      Policy
	idProvider  platform.IDProvider
}

// New instantiates the security service implementation.
func New(credentials CredentialStore, accounts AccountStore, apiAccounts APIAccountProvider, policy Policy, idp platform.IDProvider) Service {
	return securityService{
		credentials: credentials,
		accounts:    accounts,
		apiAccounts: apiAccounts,
		policy:      policy,
		idProvider:  idp,
	}
}

func (svc securityService) UserByName(ctx context.Context, name string, level Detail) (*User, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	cred, err := cs.RetrieveByName(ctx, name)
	cs.Close()
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return svc.view(ctx, cred, level)
}

func (svc securityService) UserByID(ctx context.Context, id string, level Detail) (*User, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	cred, err := cs.RetrieveByID(ctx, id)
	cs.Close()
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return svc.view(ctx, cred, level)
}

func (svc securityService) UserByEmail(ctx context.Context, email string, level Detail) (*User, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	cred, err := cs.RetrieveByEmail(ctx, email)
	cs.Close()
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return svc.view(ctx, cred, level)
}

func (svc securityService) UserByLogin(ctx context.Context, login Login, level Detail) (*User, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	cred, err := cs.RetrieveByLogin(ctx, login)
	cs.Close()
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return svc.view(ctx, cred, level)
}

func (svc securityService) CreateUser(ctx context.Context, user *User) (Result, error) {
	if user == nil {
		return Result{}, errors.Wrap(svcerr.ErrMalformedEntity, errNilUser)
	}

	cred := user.Credential()
	if cred.ID == "" {
		id, err := svc.idProvider.ID()
		if err != nil {
			return Result{}, errors.Wrap(svcerr.ErrUniqueID, err)
		}
		cred.ID = id
	}

	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return Result{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}
	result := cs.Create(ctx, cred, user.Password)
	cs.Close()

	// No account write on a failed credential write: no orphaned account
	// record can exist.
	if !result.Succeeded {
		return result, nil
	}

	as, err := svc.accounts.Session(ctx)
	if err != nil {
		return Result{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}
	defer as.Close()

	acct := user.Account()
	acct.State = ApprovedState

	as.Add(acct)
	if err := as.Commit(ctx); err != nil {
		// The credential record stays committed; the window is reported to
		// the caller and not repaired here.
		return Fail(err.Error()), nil
	}

	return OK(), nil
}

func (svc securityService) UpdateUser(ctx context.Context, user *User) (Result, error) {
	if user == nil {
		return Result{}, errors.Wrap(svcerr.ErrMalformedEntity, errNilUser)
	}

	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	cred, err := cs.RetrieveByID(ctx, user.ID)
	if err != nil {
		cs.Close()
		if errors.Contains(err, repoerr.ErrNotFound) {
			return Fail(MsgUserNotFound), nil
		}
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	if !svc.policy.Editable(cred.Username) {
		cs.Close()
		return Fail(MsgUserNotEditable), nil
	}

	user.PatchCredential(&cred)
	result := cs.Update(ctx, cred)
	cs.Close()
	if !result.Succeeded {
		return result, nil
	}

	as, err := svc.accounts.Session(ctx)
	if err != nil {
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	defer as.Close()

	acct, err := as.RetrieveByName(ctx, cred.Username, FullDetail)
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			// The stores diverged: the credential write above stays
			// committed and the divergence is reported, not repaired.
			return Fail(MsgAccountNotFound), nil
		}
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	user.PatchAccount(acct)
	if err := as.Commit(ctx); err != nil {
		return Fail(err.Error()), nil
	}

	return OK(), nil
}

func (svc securityService) DeleteUsers(ctx context.Context, names []string) error {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return errors.Wrap(svcerr.ErrRemoveEntity, err)
	}
	defer cs.Close()

	// Deletion is best effort per name: protected and unknown names are
	// skipped, and one name's failure does not abort the batch.
	for _, name := range names {
		if !svc.policy.Editable(name) {
			continue
		}

		cred, err := cs.RetrieveByName(ctx, name)
		if err != nil {
			continue
		}

		if result := cs.Remove(ctx, cred.ID); !result.Succeeded {
			continue
		}

		svc.removeAccount(ctx, name)
	}

	return nil
}

func (svc securityService) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) (Result, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	defer cs.Close()

	cred, err := cs.RetrieveByName(ctx, name)
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return Fail(MsgUserNotFound), nil
		}
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	if !svc.policy.Editable(cred.Username) {
		return Fail(MsgUserNotEditable), nil
	}

	return cs.ChangePassword(ctx, cred.ID, oldPassword, newPassword), nil
}

func (svc securityService) ResetPassword(ctx context.Context, name, newPassword string) (Result, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	defer cs.Close()

	cred, err := cs.RetrieveByName(ctx, name)
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return Fail(MsgUserNotFound), nil
		}
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	if !svc.policy.Editable(cred.Username) {
		return Fail(MsgUserNotEditable), nil
	}

	return cs.ResetPassword(ctx, cred.ID, newPassword), nil
}

func (svc securityService) ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) (Result, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	defer cs.Close()

	cred, err := cs.RetrieveByID(ctx, id)
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return Fail(MsgUserNotFound), nil
		}
		return Result{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	if !svc.policy.Editable(cred.Username) {
		return Fail(MsgUserNotEditable), nil
	}

	return cs.ResetPasswordWithToken(ctx, cred.ID, token, newPassword), nil
}

func (svc securityService) GenerateResetToken(ctx context.Context, id string) (string, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return "", errors.Wrap(ErrRecoveryToken, err)
	}
	defer cs.Close()

	token, err := cs.GenerateResetToken(ctx, id)
	if err != nil {
		return "", errors.Wrap(ErrRecoveryToken, err)
	}

	return token, nil
}

func (svc securityService) SearchUsers(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	cs, err := svc.credentials.Session(ctx)
	if err != nil {
		return SearchResponse{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	creds, err := cs.RetrieveAll(ctx)
	cs.Close()
	if err != nil {
		return SearchResponse{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	// Keyword matching is a case-sensitive substring match on the username.
	matched := make([]Credential, 0, len(creds))
	for _, cred := range creds {
		if req.Keyword == "" || strings.Contains(cred.Username, req.Keyword) {
			matched = append(matched, cred)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Username < matched[j].Username
	})

	res := SearchResponse{TotalCount: len(matched)}

	skip := req.Skip
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		skip = len(matched)
	}
	take := req.Take
	if take < 0 {
		take = 0
	}
	if skip+take > len(matched) {
		take = len(matched) - skip
	}

	// Pagination operates over credential records; account records are
	// joined for the returned page only, one lookup per page member.
	for _, cred := range matched[skip : skip+take] {
		user, err := svc.UserByName(ctx, cred.Username, ReducedDetail)
		if err != nil {
			return SearchResponse{}, err
		}
		if user != nil {
			res.Users = append(res.Users, *user)
		}
	}

	return res, nil
}

func (svc securityService) GenerateAPIAccount(typ APIAccountType) (APIAccount, error) {
	return svc.apiAccounts.Generate(typ)
}

// view joins the account record onto an already resolved credential record
// and applies redaction for the requested detail level.
func (svc securityService) view(ctx context.Context, cred Credential, level Detail) (*User, error) {
	as, err := svc.accounts.Session(ctx)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	defer as.Close()

	acct := Account{}
	dbAcct, err := as.RetrieveByName(ctx, cred.Username, level)
	switch {
	case err == nil:
		acct = *dbAcct
	case !errors.Contains(err, repoerr.ErrNotFound):
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	user := MergeUser(cred, acct)
	if level != ExportDetail {
		user.Redact()
	}

	return &user, nil
}

func (svc securityService) removeAccount(ctx context.Context, name string) {
	as, err := svc.accounts.Session(ctx)
	if err != nil {
		return
	}
	defer as.Close()

	acct, err := as.RetrieveByName(ctx, name, ReducedDetail)
	if err != nil {
		return
	}

	as.Remove(*acct)
	_ = as.Commit(ctx)
}
