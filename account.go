package kestrel

import (
	"context"
	"time"

	"github.com/kestrelbank/kestrel/internal/apierror"
	"github.com/kestrelbank/kestrel/internal/notification"
	"github.com/kestrelbank/kestrel/internal/secrets"
	"github.com/kestrelbank/kestrel/model"
	"github.com/kestrelbank/kestrel/store"
)

const accountTokenLength = 20

// CreateAccount registers a new account under the given username and
// returns its freshly issued plaintext token. The token is derivable from
// nothing we keep: only its salted scrypt hash is stored, so this is the
// one and only time it can be read.
func (k *Kestrel) CreateAccount(ctx context.Context, username string) (*model.CreationResult, error) {
	if username == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidUsername, "Invalid username.", nil)
	}

	release := k.locks.Acquire(username)
	defer release()

	if k.ledger.AccountExists(username) {
		return nil, apierror.NewAPIError(apierror.ErrUsernameTaken, "Username already taken.", nil)
	}

	token, err := secrets.GenerateToken(accountTokenLength)
	if err != nil {
		notification.NotifyError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}
	salt, hash, err := secrets.Issue(token)
	if err != nil {
		notification.NotifyError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}

	account := &model.Account{
		Username:       username,
		CredentialKey:  secrets.EncodeKey(salt, hash),
		TransactionIDs: []string{},
		CreatedAt:      time.Now(),
	}
	if err := k.store.UpsertAccount(ctx, account); err != nil {
		notification.NotifyError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}
	k.ledger.PutAccount(account)

	return &model.CreationResult{Token: token}, nil
}

// DeleteAccount removes an authenticated account. The system account can
// never be deleted, and a finite balance must be exactly zero so no funds
// vanish with the record.
func (k *Kestrel) DeleteAccount(ctx context.Context, username, suppliedSecret string) error {
	release := k.locks.Acquire(username)
	defer release()

	if _, err := k.authenticate(username, suppliedSecret, apierror.ErrNoSuchUser, apierror.ErrInvalidCredentials); err != nil {
		return err
	}
	if username == model.SystemAccount {
		return apierror.NewAPIError(apierror.ErrDeletionForbidden, "This account cannot be deleted.", nil)
	}
	balance, _ := k.ledger.Balance(username)
	if !balance.IsZero() {
		return apierror.NewAPIError(apierror.ErrNonzeroBalance, "Account balance must be zero.", nil)
	}

	if err := k.store.DeleteAccount(ctx, username); err != nil {
		notification.NotifyError(err)
		return apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}
	k.ledger.RemoveAccount(username)
	return nil
}

// GetAccountInfo returns the authenticated account's outward view with its
// derived balance. The record is refreshed from the store first, so the
// answer reflects writes from other instances sharing the store.
func (k *Kestrel) GetAccountInfo(ctx context.Context, username, suppliedSecret string) (*model.AccountView, error) {
	if _, err := k.authenticate(username, suppliedSecret, apierror.ErrNoSuchUser, apierror.ErrInvalidCredentials); err != nil {
		return nil, err
	}

	if fresh, err := k.store.GetAccount(ctx, username); err == nil {
		k.ledger.PutAccount(fresh)
	} else if err != store.ErrNotFound {
		notification.NotifyError(err)
	}

	account, ok := k.ledger.GetAccount(username)
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNoSuchUser, "No such user.", nil)
	}
	balance, unbounded := k.ledger.Balance(username)
	view := account.View(balance, unbounded)
	return &view, nil
}

// EnsureSystemAccount bootstraps the system account if it is missing and
// returns its one-time token. When the account already exists it returns
// nil with no error; the existing credential stays untouched.
func (k *Kestrel) EnsureSystemAccount(ctx context.Context) (*model.CreationResult, error) {
	if k.ledger.AccountExists(model.SystemAccount) {
		return nil, nil
	}
	return k.CreateAccount(ctx, model.SystemAccount)
}
