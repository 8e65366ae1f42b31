package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionStateMachine(t *testing.T) {
	txn := NewTransaction(decimal.NewFromFloat(25.50), "alice", "bob", "rent")
	assert.Equal(t, StatusPending, txn.Status)
	assert.Nil(t, txn.Error)
	assert.False(t, txn.Terminal())

	txn.Approve()
	assert.Equal(t, StatusApproved, txn.Status)
	assert.True(t, txn.Terminal())

	// Terminal states never transition again.
	txn.Decline("INSUFFICIENT_FUNDS", "too late")
	assert.Equal(t, StatusApproved, txn.Status)
	assert.Nil(t, txn.Error)
}

func TestTransactionDecline(t *testing.T) {
	txn := NewTransaction(decimal.NewFromInt(10), "alice", "alice", "self")
	txn.Decline("SELF_TRANSACTION", "Cannot send funds to oneself.")

	assert.Equal(t, StatusDeclined, txn.Status)
	if assert.NotNil(t, txn.Error) {
		assert.Equal(t, "SELF_TRANSACTION", txn.Error.Code)
	}

	txn.Approve()
	assert.Equal(t, StatusDeclined, txn.Status)
}

func TestTransactionJSONShape(t *testing.T) {
	txn := NewTransaction(decimal.NewFromFloat(12.30), "alice", "bob", "lunch")
	txn.Approve()

	raw, err := txn.ToJSON()
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, txn.TransactionID, decoded["id"])
	assert.Equal(t, 12.3, decoded["amount"])
	assert.Equal(t, "approved", decoded["status"])
	assert.Nil(t, decoded["error"])
}
