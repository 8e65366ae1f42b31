package apierror

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	// Registrar.
	ErrInvalidUsername ErrorCode = "INVALID_USERNAME"
	ErrUsernameTaken   ErrorCode = "USERNAME_TAKEN"

	// Payment authorization.
	ErrBadAmount               ErrorCode = "BAD_AMOUNT"
	ErrNoSuchPayer             ErrorCode = "NO_SUCH_PAYER"
	ErrNoSuchPayee             ErrorCode = "NO_SUCH_PAYEE"
	ErrInvalidAmount           ErrorCode = "INVALID_AMOUNT"
	ErrInsufficientFunds       ErrorCode = "INSUFFICIENT_FUNDS"
	ErrSelfTransaction         ErrorCode = "SELF_TRANSACTION"
	ErrUnauthorizedTransaction ErrorCode = "UNAUTHORIZED_TRANSACTION"

	// Account lifecycle and queries.
	ErrInvalidAuth        ErrorCode = "INVALID_AUTH"
	ErrNoSuchUser         ErrorCode = "NO_SUCH_USER"
	ErrInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrUnauthorizedQuery  ErrorCode = "UNAUTHORIZED_QUERY"
	ErrNonzeroBalance     ErrorCode = "NONZERO_BALANCE"
	ErrDeletionForbidden  ErrorCode = "DELETION_FORBIDDEN"
	ErrNoSuchTransaction  ErrorCode = "NO_SUCH_TRANSACTION"

	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"description"`
	Details interface{} `json:"-"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// MapErrorToHTTPStatus translates a domain error into the status code the
// HTTP boundary reports. Anything that is not an APIError is a systemic
// failure and maps to 500.
func MapErrorToHTTPStatus(err error) int {
	apiErr, ok := err.(APIError)
	if !ok {
		return http.StatusInternalServerError
	}
	switch apiErr.Code {
	case ErrInvalidUsername, ErrBadAmount, ErrInvalidAuth:
		return http.StatusBadRequest
	case ErrUsernameTaken:
		return http.StatusConflict
	case ErrNoSuchPayer, ErrNoSuchPayee, ErrNoSuchUser, ErrNoSuchTransaction:
		return http.StatusNotFound
	case ErrInvalidAmount, ErrInsufficientFunds, ErrSelfTransaction,
		ErrNonzeroBalance, ErrDeletionForbidden:
		return http.StatusForbidden
	case ErrUnauthorizedTransaction, ErrInvalidCredentials, ErrUnauthorizedQuery:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
