package datacanvas

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testClientKey = "client-key-123"
	testSecretKey = "s3cr3t-value-xyz"
	testProjectID = 10
)

func testConfig(baseURL string) Config {
	return Config{
		ClientKey: testClientKey,
		SecretKey: testSecretKey,
		ProjectID: testProjectID,
		BaseURL:   baseURL,
	}
}

// newTestServer starts a server and a client pointed at it.
func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL), opts...)
	require.NoError(t, err)
	return client
}

// decodeBody reads a JSON request body into a map.
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// recordingTransport is a RoundTripper double. It records every request
// body and answers with a fixed response or error.
type recordingTransport struct {
	status int
	body   string
	header http.Header
	err    error

	calls atomic.Int32
	mu    sync.Mutex
	seen  [][]byte
	reqs  []*http.Request
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.calls.Add(1)

	var payload []byte
	if req.Body != nil {
		payload, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	rt.mu.Lock()
	rt.seen = append(rt.seen, payload)
	rt.reqs = append(rt.reqs, req)
	rt.mu.Unlock()

	if rt.err != nil {
		return nil, rt.err
	}
	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}
	header := rt.header
	if header == nil {
		header = http.Header{"Content-Type": []string{"application/json"}}
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(rt.body)),
		Request:    req,
	}, nil
}

func (rt *recordingTransport) bodies() [][]byte {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([][]byte(nil), rt.seen...)
}

// newRecordingClient returns a client whose requests go to rt.
func newRecordingClient(t *testing.T, rt *recordingTransport, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{WithHTTPClient(&http.Client{Transport: rt})}, opts...)
	client, err := NewClient(testConfig("https://api.example.com"), all...)
	require.NoError(t, err)
	return client
}

func requireKind(t *testing.T, err error, want Kind) *Error {
	t.Helper()
	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr), "error %T is not *Error: %v", err, err)
	require.Equal(t, want, apiErr.Kind, "kind mismatch: %v", err)
	return apiErr
}
