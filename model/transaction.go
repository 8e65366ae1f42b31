package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// ErrorDetail is the machine-readable decline reason carried by a
// declined transaction. It is nil on approved transactions.
type ErrorDetail struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Transaction struct {
	TransactionID string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Payer         string          `json:"payer"`
	Payee         string          `json:"payee"`
	Purpose       string          `json:"purpose"`
	Status        string          `json:"status"`
	Error         *ErrorDetail    `json:"error"`
	CreatedAt     time.Time       `json:"datetime"`
}

// NewTransaction instantiates a pending transaction for an attempted
// transfer. The amount must already be normalized.
func NewTransaction(amount decimal.Decimal, payer, payee, purpose string) *Transaction {
	return &Transaction{
		TransactionID: GenerateUUIDWithSuffix("txn"),
		Amount:        amount,
		Payer:         payer,
		Payee:         payee,
		Purpose:       purpose,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}
}

// Approve moves a pending transaction to its approved terminal state.
// Terminal states never transition again.
func (transaction *Transaction) Approve() {
	if transaction.Status != StatusPending {
		return
	}
	transaction.Status = StatusApproved
	transaction.Error = nil
}

// Decline moves a pending transaction to its declined terminal state,
// attaching the decline reason.
func (transaction *Transaction) Decline(code, description string) {
	if transaction.Status != StatusPending {
		return
	}
	transaction.Status = StatusDeclined
	transaction.Error = &ErrorDetail{Code: code, Description: description}
}

// Terminal reports whether the transaction has reached a final state.
func (transaction *Transaction) Terminal() bool {
	return transaction.Status == StatusApproved || transaction.Status == StatusDeclined
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}
