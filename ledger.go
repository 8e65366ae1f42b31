package kestrel

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kestrelbank/kestrel/model"
	"github.com/kestrelbank/kestrel/store"
)

// Ledger is the authoritative in-memory state: the account table, the
// transaction log, and a per-account running balance folded from approved
// transactions. Balances are never stored; they are derived from the log at
// load time and maintained incrementally on each append, so a balance query
// never rescans the log.
type Ledger struct {
	mu           sync.RWMutex
	accounts     map[string]*model.Account
	transactions map[string]*model.Transaction
	balances     map[string]decimal.Decimal
}

func NewLedger() *Ledger {
	return &Ledger{
		accounts:     make(map[string]*model.Account),
		transactions: make(map[string]*model.Transaction),
		balances:     make(map[string]decimal.Decimal),
	}
}

// Load replaces the ledger state with the store's contents and refolds every
// balance from the approved transactions.
func (l *Ledger) Load(ctx context.Context, db store.Store) error {
	var (
		accounts     []*model.Account
		transactions []*model.Transaction
	)
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		accounts, err = db.LoadAllAccounts(grpCtx)
		return err
	})
	grp.Go(func() error {
		var err error
		transactions, err = db.LoadAllTransactions(grpCtx)
		return err
	})
	if err := grp.Wait(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = make(map[string]*model.Account, len(accounts))
	l.transactions = make(map[string]*model.Transaction, len(transactions))
	l.balances = make(map[string]decimal.Decimal, len(accounts))
	for _, account := range accounts {
		l.accounts[account.Username] = account
		l.balances[account.Username] = decimal.Zero
	}
	for _, transaction := range transactions {
		l.transactions[transaction.TransactionID] = transaction
		l.applyLocked(transaction)
	}
	return nil
}

// applyLocked folds an approved transaction into the running balances.
// Declined and pending records never move funds. Caller holds l.mu.
func (l *Ledger) applyLocked(transaction *model.Transaction) {
	if transaction.Status != model.StatusApproved {
		return
	}
	if balance, ok := l.balances[transaction.Payer]; ok {
		l.balances[transaction.Payer] = balance.Sub(transaction.Amount).Round(2)
	}
	if balance, ok := l.balances[transaction.Payee]; ok {
		l.balances[transaction.Payee] = balance.Add(transaction.Amount).Round(2)
	}
}

// AccountExists reports whether the username is registered.
func (l *Ledger) AccountExists(username string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.accounts[username]
	return ok
}

// GetAccount returns a copy of the account record.
func (l *Ledger) GetAccount(username string) (*model.Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	account, ok := l.accounts[username]
	if !ok {
		return nil, false
	}
	return copyAccount(account), true
}

// PutAccount upserts an account record.
func (l *Ledger) PutAccount(account *model.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[account.Username] = copyAccount(account)
	if _, ok := l.balances[account.Username]; !ok {
		l.balances[account.Username] = decimal.Zero
	}
}

// RemoveAccount drops an account and its balance entry. The transaction log
// keeps any records that reference the departed account.
func (l *Ledger) RemoveAccount(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.accounts, username)
	delete(l.balances, username)
}

// GetTransaction returns a copy of the transaction record.
func (l *Ledger) GetTransaction(id string) (*model.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	transaction, ok := l.transactions[id]
	if !ok {
		return nil, false
	}
	return copyTransaction(transaction), true
}

// StageTransaction projects the party accounts as they will look once the
// transaction is appended, without mutating any state. Callers persist the
// projections first and commit with AppendTransaction only after every
// write lands. A replayed id stages nothing.
func (l *Ledger) StageTransaction(transaction *model.Transaction) []*model.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, seen := l.transactions[transaction.TransactionID]; seen {
		return nil
	}
	var staged []*model.Account
	for _, username := range []string{transaction.Payer, transaction.Payee} {
		account, ok := l.accounts[username]
		if !ok {
			continue
		}
		if transaction.Status != model.StatusApproved && username != transaction.Payer {
			continue
		}
		clone := copyAccount(account)
		if !containsID(clone.TransactionIDs, transaction.TransactionID) {
			clone.TransactionIDs = append(clone.TransactionIDs, transaction.TransactionID)
		}
		staged = append(staged, clone)
	}
	return staged
}

// AppendTransaction records a terminal transaction in the log and links it
// into the parties' histories. The append is idempotent by transaction id:
// replaying an id replaces the stored fields but never re-applies the
// balance delta or duplicates history entries.
func (l *Ledger) AppendTransaction(transaction *model.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, seen := l.transactions[transaction.TransactionID]; seen {
		l.transactions[transaction.TransactionID] = copyTransaction(transaction)
		return
	}
	l.transactions[transaction.TransactionID] = copyTransaction(transaction)
	l.applyLocked(transaction)

	for _, username := range []string{transaction.Payer, transaction.Payee} {
		account, ok := l.accounts[username]
		if !ok {
			continue
		}
		if transaction.Status != model.StatusApproved && username != transaction.Payer {
			// A declined attempt belongs only to the payer's history.
			continue
		}
		if !containsID(account.TransactionIDs, transaction.TransactionID) {
			account.TransactionIDs = append(account.TransactionIDs, transaction.TransactionID)
		}
	}
}

// Balance returns the derived balance for the account. The system account
// reports unbounded funds and carries no finite balance.
func (l *Ledger) Balance(username string) (decimal.Decimal, bool) {
	if username == model.SystemAccount {
		return decimal.Zero, true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[username], false
}

// History returns copies of the transactions linked to the account, in
// append order.
func (l *Ledger) History(username string) []*model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	account, ok := l.accounts[username]
	if !ok {
		return nil
	}
	history := make([]*model.Transaction, 0, len(account.TransactionIDs))
	for _, id := range account.TransactionIDs {
		if transaction, ok := l.transactions[id]; ok {
			history = append(history, copyTransaction(transaction))
		}
	}
	return history
}

func copyAccount(account *model.Account) *model.Account {
	clone := *account
	clone.TransactionIDs = append([]string{}, account.TransactionIDs...)
	return &clone
}

func copyTransaction(transaction *model.Transaction) *model.Transaction {
	clone := *transaction
	if transaction.Error != nil {
		errorDetail := *transaction.Error
		clone.Error = &errorDetail
	}
	return &clone
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
