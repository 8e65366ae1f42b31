package store

import (
	"context"
	"errors"

	"github.com/kestrelbank/kestrel/model"
)

// ErrNotFound signals a structurally absent record. Business-rule checks
// live with the callers; the store only reports existence.
var ErrNotFound = errors.New("record not found")

// Store is the persistence collaborator: a dumb blob store keyed by the
// natural identifier (username / transaction id). Every write is an
// idempotent upsert.
type Store interface {
	LoadAllAccounts(ctx context.Context) ([]*model.Account, error)
	LoadAllTransactions(ctx context.Context) ([]*model.Transaction, error)
	GetAccount(ctx context.Context, username string) (*model.Account, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpsertAccount(ctx context.Context, account *model.Account) error
	UpsertTransaction(ctx context.Context, transaction *model.Transaction) error
	DeleteAccount(ctx context.Context, username string) error
}
