package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type TestServer struct {
	*httptest.Server
	t *testing.T
	// Token is sent as a bearer token when non-empty
	Token string
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	server := httptest.NewServer(handler)
	return &TestServer{
		Server: server,
		t:      t,
	}
}

// WithToken returns a view of ts that authenticates as token.
func (ts *TestServer) WithToken(token string) *TestServer {
	return &TestServer{Server: ts.Server, t: ts.t, Token: token}
}

func (ts *TestServer) GET(path string) *http.Response {
	return ts.Do(http.MethodGet, path, nil)
}

func (ts *TestServer) POST(path string, body interface{}) *http.Response {
	return ts.Do(http.MethodPost, path, body)
}

func (ts *TestServer) PUT(path string, body interface{}) *http.Response {
	return ts.Do(http.MethodPut, path, body)
}

func (ts *TestServer) PATCH(path string, body interface{}) *http.Response {
	return ts.Do(http.MethodPatch, path, body)
}

func (ts *TestServer) DELETE(path string) *http.Response {
	return ts.Do(http.MethodDelete, path, nil)
}

// Do sends body as JSON. A string or []byte body is sent verbatim.
func (ts *TestServer) Do(method, path string, body interface{}) *http.Response {
	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		bodyReader = bytes.NewReader([]byte(b))
	case []byte:
		bodyReader = bytes.NewReader(b)
	default:
		jsonBody, err := json.Marshal(b)
		require.NoError(ts.t, err)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL+path, bodyReader)
	require.NoError(ts.t, err)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(ts.t, err)
	return resp
}

func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, expectedStatus, resp.StatusCode)

	if target != nil {
		err := json.NewDecoder(resp.Body).Decode(target)
		require.NoError(t, err)
	}
}

// AssertErrorResponse checks the status and, when expectedDetail is set, the "detail" field.
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedDetail string) {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, expectedStatus, resp.StatusCode)

	var errorResp map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	require.NoError(t, err)

	if expectedDetail != "" {
		require.Equal(t, expectedDetail, errorResp["detail"])
	}
}
