package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemAccount is the distinguished account with unbounded funds. It is
// exempt from debit checks and can never be deleted.
const SystemAccount = "admin"

// Account is the canonical record of a funds holder. CredentialKey holds
// the salt and scrypt hash of the account token in "hexsalt:hexhash" form;
// it is persisted but must never cross the API boundary (see View).
type Account struct {
	Username       string    `json:"username"`
	CredentialKey  string    `json:"key"`
	TransactionIDs []string  `json:"transaction_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsSystem reports whether this is the system account.
func (account *Account) IsSystem() bool {
	return account.Username == SystemAccount
}

// AccountView is the outward representation of an account: credential
// material stripped, derived balance attached. Balance is null for the
// system account, whose funds are unbounded.
type AccountView struct {
	Username       string           `json:"username"`
	TransactionIDs []string         `json:"transaction_ids"`
	Balance        *decimal.Decimal `json:"balance"`
	Unbounded      bool             `json:"unbounded,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// View builds the outward representation of the account.
func (account *Account) View(balance decimal.Decimal, unbounded bool) AccountView {
	view := AccountView{
		Username:       account.Username,
		TransactionIDs: append([]string{}, account.TransactionIDs...),
		CreatedAt:      account.CreatedAt,
	}
	if unbounded {
		view.Unbounded = true
		return view
	}
	view.Balance = &balance
	return view
}

// CreationResult carries the one-time plaintext token issued when an
// account is created. The token is never retrievable again.
type CreationResult struct {
	Token string `json:"token"`
}
