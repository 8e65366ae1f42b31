package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateAccount is the payload for registering a new account.
type CreateAccount struct {
	Username string `json:"username"`
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Username, validation.Required),
	)
}

// SendMoney is the payload for a transfer. The payer and its secret come
// from the Authorization header, never from the body. Amount stays untyped
// here so malformed values reach the authorizer and decline as a domain
// outcome instead of a bind error.
type SendMoney struct {
	Payee   string      `json:"payee"`
	Amount  interface{} `json:"amount"`
	Purpose string      `json:"purpose"`
}

func (s *SendMoney) ValidateSendMoney() error {
	// A missing payee is a domain outcome (404), not a bind error, so only
	// the amount's presence is checked here. NotNil keeps a literal zero
	// flowing through to the authorizer, which declines it on its own terms.
	return validation.ValidateStruct(s,
		validation.Field(&s.Amount, validation.NotNil),
	)
}
