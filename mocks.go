package kestrel

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kestrelbank/kestrel/model"
)

// MockStore is a testify mock of store.Store for service-level tests that
// need to script persistence behavior, including failures.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadAllAccounts(ctx context.Context) ([]*model.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]*model.Account)
	return accounts, args.Error(1)
}

func (m *MockStore) LoadAllTransactions(ctx context.Context) ([]*model.Transaction, error) {
	args := m.Called(ctx)
	transactions, _ := args.Get(0).([]*model.Transaction)
	return transactions, args.Error(1)
}

func (m *MockStore) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	args := m.Called(ctx, username)
	account, _ := args.Get(0).(*model.Account)
	return account, args.Error(1)
}

func (m *MockStore) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	transaction, _ := args.Get(0).(*model.Transaction)
	return transaction, args.Error(1)
}

func (m *MockStore) UpsertAccount(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockStore) UpsertTransaction(ctx context.Context, transaction *model.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockStore) DeleteAccount(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
