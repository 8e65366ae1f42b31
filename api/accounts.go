package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/kestrelbank/kestrel/api/model"
	"github.com/kestrelbank/kestrel/internal/apierror"
)

// CreateAccount registers a new account and returns its one-time token.
// The token appears in this response and nowhere else ever again.
func (a Api) CreateAccount(c *gin.Context) {
	var newAccount model2.CreateAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		respondBadRequest(c, apierror.ErrInvalidUsername, "Invalid username.")
		return
	}
	if err := newAccount.ValidateCreateAccount(); err != nil {
		respondBadRequest(c, apierror.ErrInvalidUsername, "Invalid username.")
		return
	}

	result, err := a.kestrel.CreateAccount(c.Request.Context(), newAccount.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, result)
}

// DeleteAccount removes the authenticated caller's account. Success is a
// bare 204 with no body.
func (a Api) DeleteAccount(c *gin.Context) {
	username, secret := caller(c)
	if err := a.kestrel.DeleteAccount(c.Request.Context(), username, secret); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyInfo returns the caller's account view with its derived balance.
func (a Api) MyInfo(c *gin.Context) {
	username, secret := caller(c)
	view, err := a.kestrel.GetAccountInfo(c.Request.Context(), username, secret)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, view)
}
