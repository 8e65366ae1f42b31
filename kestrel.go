package kestrel

import (
	"context"

	"github.com/kestrelbank/kestrel/internal/apierror"
	"github.com/kestrelbank/kestrel/internal/lock"
	"github.com/kestrelbank/kestrel/internal/notification"
	"github.com/kestrelbank/kestrel/internal/secrets"
	"github.com/kestrelbank/kestrel/model"
	"github.com/kestrelbank/kestrel/store"
)

// Kestrel is the service facade: the in-memory ledger, the persistence
// collaborator behind it, and the per-account lock registry that keeps
// check-then-act sequences atomic.
type Kestrel struct {
	store  store.Store
	ledger *Ledger
	locks  *lock.Registry
}

// NewKestrel wires a service instance over the given store and loads the
// full account and transaction state into the ledger.
func NewKestrel(ctx context.Context, db store.Store) (*Kestrel, error) {
	ledger := NewLedger()
	if err := ledger.Load(ctx, db); err != nil {
		return nil, err
	}
	return &Kestrel{store: db, ledger: ledger, locks: lock.NewRegistry()}, nil
}

// authenticate resolves an account and verifies the supplied secret against
// its stored credential material. missingCode and deniedCode let each caller
// keep its own taxonomy (a query denial is not a transaction denial).
func (k *Kestrel) authenticate(username, suppliedSecret string, missingCode, deniedCode apierror.ErrorCode) (*model.Account, error) {
	account, ok := k.ledger.GetAccount(username)
	if !ok {
		return nil, apierror.NewAPIError(missingCode, "No such user.", nil)
	}
	salt, hash, err := secrets.DecodeKey(account.CredentialKey)
	if err != nil {
		// Corrupt credential material is a data fault, never a caller
		// mistake. Report it and fail closed.
		notification.NotifyError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}
	if !secrets.Verify(suppliedSecret, salt, hash) {
		return nil, apierror.NewAPIError(deniedCode, "Invalid credentials.", nil)
	}
	return account, nil
}
