package kestrel

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kestrelbank/kestrel/internal/apierror"
	"github.com/kestrelbank/kestrel/internal/notification"
	"github.com/kestrelbank/kestrel/internal/secrets"
	"github.com/kestrelbank/kestrel/model"
)

// SubmitPayment runs the ordered authorization sequence for a transfer.
// The checks run in a fixed order and the first failure wins; the balance
// check and the debit/credit mutation execute as one atomic unit under the
// account-pair lock. Business-rule declines (insufficient funds,
// self-transfer, bad credentials) are recorded in the transaction log and
// persisted before returning; structural declines (malformed amount,
// unknown party) are returned without persistence.
func (k *Kestrel) SubmitPayment(ctx context.Context, rawAmount interface{}, payer, payee, payerSecret, purpose string) (*model.Transaction, error) {
	amount, err := model.NormalizeAmount(rawAmount)
	if err != nil {
		transaction := model.NewTransaction(decimal.Zero, payer, payee, purpose)
		transaction.Decline(string(apierror.ErrBadAmount), "Invalid amount.")
		return transaction, apierror.NewAPIError(apierror.ErrBadAmount, "Invalid amount.", nil)
	}

	release := k.locks.Acquire(payer, payee)
	defer release()

	transaction := model.NewTransaction(amount, payer, payee, purpose)

	if !k.ledger.AccountExists(payer) {
		transaction.Decline(string(apierror.ErrNoSuchPayer), "No such payer.")
		return transaction, apierror.NewAPIError(apierror.ErrNoSuchPayer, "No such payer.", nil)
	}
	if !k.ledger.AccountExists(payee) {
		transaction.Decline(string(apierror.ErrNoSuchPayee), "No such payee.")
		return transaction, apierror.NewAPIError(apierror.ErrNoSuchPayee, "No such payee.", nil)
	}
	if !amount.IsPositive() {
		transaction.Decline(string(apierror.ErrInvalidAmount), "Amount must be greater than zero.")
		return transaction, apierror.NewAPIError(apierror.ErrInvalidAmount, "Amount must be greater than zero.", nil)
	}

	balance, unbounded := k.ledger.Balance(payer)
	if !unbounded && balance.LessThan(amount) {
		return k.declineAndRecord(ctx, transaction, apierror.ErrInsufficientFunds, "Insufficient funds.")
	}
	if payer == payee {
		return k.declineAndRecord(ctx, transaction, apierror.ErrSelfTransaction, "Cannot send funds to oneself.")
	}

	payerAccount, _ := k.ledger.GetAccount(payer)
	salt, hash, err := secrets.DecodeKey(payerAccount.CredentialKey)
	if err != nil {
		notification.NotifyError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}
	if !secrets.Verify(payerSecret, salt, hash) {
		return k.declineAndRecord(ctx, transaction, apierror.ErrUnauthorizedTransaction, "Unauthorized transaction.")
	}

	transaction.Approve()
	if err := k.recordTransaction(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// declineAndRecord finalizes a business-rule decline: the transaction is
// moved to its declined terminal state, appended to the log, and persisted
// before the outcome is returned.
func (k *Kestrel) declineAndRecord(ctx context.Context, transaction *model.Transaction, code apierror.ErrorCode, description string) (*model.Transaction, error) {
	transaction.Decline(string(code), description)
	if err := k.recordTransaction(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, apierror.NewAPIError(code, description, nil)
}

// recordTransaction persists the terminal transaction and every updated
// party account, then commits the append to the in-memory ledger. The
// writes are awaited and land before the ledger mutates, so a persistence
// failure leaves balances and histories exactly where they were.
func (k *Kestrel) recordTransaction(ctx context.Context, transaction *model.Transaction) error {
	staged := k.ledger.StageTransaction(transaction)
	if err := k.store.UpsertTransaction(ctx, transaction); err != nil {
		notification.NotifyError(err)
		return apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}
	for _, account := range staged {
		if err := k.store.UpsertAccount(ctx, account); err != nil {
			notification.NotifyError(err)
			return apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
		}
	}
	k.ledger.AppendTransaction(transaction)
	return nil
}

// GetTransaction looks up a transaction for an authenticated party. Only
// the payer or the payee may see a record; everyone else gets the same
// answer as for an id that does not exist.
func (k *Kestrel) GetTransaction(ctx context.Context, id, username, suppliedSecret string) (*model.Transaction, error) {
	if _, err := k.authenticate(username, suppliedSecret, apierror.ErrNoSuchUser, apierror.ErrUnauthorizedQuery); err != nil {
		return nil, err
	}
	transaction, ok := k.ledger.GetTransaction(id)
	if !ok || (transaction.Payer != username && transaction.Payee != username) {
		return nil, apierror.NewAPIError(apierror.ErrNoSuchTransaction, "No such transaction.", nil)
	}
	return transaction, nil
}

// GetTransactionHistory returns the authenticated account's transactions
// in append order, declined attempts included.
func (k *Kestrel) GetTransactionHistory(ctx context.Context, username, suppliedSecret string) ([]*model.Transaction, error) {
	if _, err := k.authenticate(username, suppliedSecret, apierror.ErrNoSuchUser, apierror.ErrUnauthorizedQuery); err != nil {
		return nil, err
	}
	return k.ledger.History(username), nil
}
