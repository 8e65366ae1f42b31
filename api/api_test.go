package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelbank/kestrel"
	"github.com/kestrelbank/kestrel/config"
	"github.com/kestrelbank/kestrel/internal/request"
	"github.com/kestrelbank/kestrel/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{Redis: config.RedisConfig{Dns: mr.Addr()}})
	db, err := store.NewRedisStore()
	require.NoError(t, err)
	service, err := kestrel.NewKestrel(context.Background(), db)
	require.NoError(t, err)
	return NewAPI(service).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, authUser, authSecret string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authUser != "" {
		req.Header.Set("Authorization", "Basic "+request.BasicAuth(authUser, authSecret))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var envelope map[string]interface{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	}
	return recorder, envelope
}

func createAccount(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	recorder, envelope := doJSON(t, router, "POST", "/new-bank-account", gin.H{"username": username}, "", "")
	require.Equal(t, http.StatusCreated, recorder.Code)
	result := envelope["result"].(map[string]interface{})
	token := result["token"].(string)
	require.Len(t, token, 20)
	return token
}

func errorCode(t *testing.T, envelope map[string]interface{}) string {
	t.Helper()
	errBody, ok := envelope["error"].(map[string]interface{})
	require.True(t, ok, "expected error in envelope: %v", envelope)
	return errBody["code"].(string)
}

func TestCreateAccountEndpoint(t *testing.T) {
	router := newTestRouter(t)

	createAccount(t, router, "alice")

	recorder, envelope := doJSON(t, router, "POST", "/new-bank-account", gin.H{"username": "alice"}, "", "")
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "USERNAME_TAKEN", errorCode(t, envelope))

	recorder, envelope = doJSON(t, router, "POST", "/new-bank-account", gin.H{"username": ""}, "", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "INVALID_USERNAME", errorCode(t, envelope))
}

func TestSendMoneyFlow(t *testing.T) {
	router := newTestRouter(t)

	adminToken := createAccount(t, router, "admin")
	aliceToken := createAccount(t, router, "alice")

	recorder, envelope := doJSON(t, router, "POST", "/send-money",
		gin.H{"payee": "alice", "amount": 100.00, "purpose": "seed"}, "admin", adminToken)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "approved", envelope["status"])
	result := envelope["result"].(map[string]interface{})
	assert.Equal(t, 100.0, result["amount"])

	recorder, envelope = doJSON(t, router, "GET", "/my-info", nil, "alice", aliceToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	view := envelope["result"].(map[string]interface{})
	assert.Equal(t, 100.0, view["balance"])
	assert.NotContains(t, view, "key")
}

func TestSendMoneyDeclinedEnvelope(t *testing.T) {
	router := newTestRouter(t)

	aliceToken := createAccount(t, router, "alice")
	createAccount(t, router, "bob")

	recorder, envelope := doJSON(t, router, "POST", "/send-money",
		gin.H{"payee": "bob", "amount": 10}, "alice", aliceToken)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "declined", envelope["status"])
	assert.Equal(t, "INSUFFICIENT_FUNDS", errorCode(t, envelope))
	result := envelope["result"].(map[string]interface{})
	assert.Equal(t, "declined", result["status"])
}

func TestSendMoneyBadAmount(t *testing.T) {
	router := newTestRouter(t)

	aliceToken := createAccount(t, router, "alice")
	createAccount(t, router, "bob")

	recorder, envelope := doJSON(t, router, "POST", "/send-money",
		gin.H{"payee": "bob", "amount": "twelve"}, "alice", aliceToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "BAD_AMOUNT", errorCode(t, envelope))

	recorder, envelope = doJSON(t, router, "POST", "/send-money",
		gin.H{"payee": "bob"}, "alice", aliceToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "BAD_AMOUNT", errorCode(t, envelope))
}

func TestAuthorizationHeaderRequired(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/my-info", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	req = httptest.NewRequest("GET", "/my-info", nil)
	req.Header.Set("Authorization", "Basic not-base64!!!")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_AUTH", errorCode(t, envelope))
}

func TestTransactionInfoAndHistory(t *testing.T) {
	router := newTestRouter(t)

	adminToken := createAccount(t, router, "admin")
	aliceToken := createAccount(t, router, "alice")
	carolToken := createAccount(t, router, "carol")

	_, envelope := doJSON(t, router, "POST", "/send-money",
		gin.H{"payee": "alice", "amount": 33.33}, "admin", adminToken)
	result := envelope["result"].(map[string]interface{})
	transactionID := result["id"].(string)

	recorder, envelope := doJSON(t, router, "GET", fmt.Sprintf("/transaction-info?transaction_id=%s", transactionID), nil, "alice", aliceToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	got := envelope["result"].(map[string]interface{})
	assert.Equal(t, transactionID, got["id"])

	// A non-party is told the transaction does not exist.
	recorder, envelope = doJSON(t, router, "GET", fmt.Sprintf("/transaction-info?transaction_id=%s", transactionID), nil, "carol", carolToken)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NO_SUCH_TRANSACTION", errorCode(t, envelope))

	// A missing parameter is just an id that matches nothing.
	recorder, envelope = doJSON(t, router, "GET", "/transaction-info", nil, "alice", aliceToken)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NO_SUCH_TRANSACTION", errorCode(t, envelope))

	recorder, envelope = doJSON(t, router, "GET", "/transaction-history", nil, "alice", aliceToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	history := envelope["result"].([]interface{})
	require.Len(t, history, 1)

	recorder, envelope = doJSON(t, router, "GET", "/transaction-history", nil, "carol", carolToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	history = envelope["result"].([]interface{})
	assert.Empty(t, history)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	router := newTestRouter(t)

	aliceToken := createAccount(t, router, "alice")

	recorder, _ := doJSON(t, router, "DELETE", "/delete-account", nil, "alice", aliceToken)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Zero(t, recorder.Body.Len())

	recorder, envelope := doJSON(t, router, "GET", "/my-info", nil, "alice", aliceToken)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NO_SUCH_USER", errorCode(t, envelope))
}