package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/kestrelbank/kestrel/api/model"
	"github.com/kestrelbank/kestrel/internal/apierror"
	"github.com/kestrelbank/kestrel/model"
)

// SendMoney submits a transfer from the authenticated caller to the payee.
// The response always carries the terminal transaction when one was built:
// approved transfers under "result", declined ones under "result" with the
// decline reason duplicated in "error".
func (a Api) SendMoney(c *gin.Context) {
	var payment model2.SendMoney
	if err := c.ShouldBindJSON(&payment); err != nil {
		respondBadRequest(c, apierror.ErrBadAmount, "Invalid amount.")
		return
	}
	if err := payment.ValidateSendMoney(); err != nil {
		respondBadRequest(c, apierror.ErrBadAmount, "Invalid amount.")
		return
	}

	payer, secret := caller(c)
	transaction, err := a.kestrel.SubmitPayment(c.Request.Context(), payment.Amount, payer, payment.Payee, secret, payment.Purpose)
	if err != nil {
		apiErr, ok := err.(apierror.APIError)
		if !ok || transaction == nil {
			respondError(c, err)
			return
		}
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{
			"status": transaction.Status,
			"result": transaction,
			"error":  apiErr,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": transaction.Status, "result": transaction})
}

// TransactionInfo returns a single transaction the caller is a party to,
// looked up by the transaction_id query parameter. A missing parameter is
// just an id that matches nothing.
func (a Api) TransactionInfo(c *gin.Context) {
	id := c.Query("transaction_id")

	username, secret := caller(c)
	transaction, err := a.kestrel.GetTransaction(c.Request.Context(), id, username, secret)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, transaction)
}

// TransactionHistory returns the caller's transactions in append order.
func (a Api) TransactionHistory(c *gin.Context) {
	username, secret := caller(c)
	history, err := a.kestrel.GetTransactionHistory(c.Request.Context(), username, secret)
	if err != nil {
		respondError(c, err)
		return
	}
	if history == nil {
		history = []*model.Transaction{}
	}
	respondSuccess(c, http.StatusOK, history)
}
