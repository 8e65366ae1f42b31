package request

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://api.example.com/status",
		httpmock.NewStringResponder(200, `{"status": "ok"}`))

	req, err := http.NewRequest("GET", "https://api.example.com/status", nil)
	require.NoError(t, err)

	var response struct {
		Status string `json:"status"`
	}
	resp, err := Call(req, &response)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestToJsonReq(t *testing.T) {
	buf, err := ToJsonReq(map[string]string{"username": "alice"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice"}`, buf.String())
}

func TestBasicAuth(t *testing.T) {
	encoded := BasicAuth("alice", "s3cret")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "alice:s3cret", string(decoded))
}
