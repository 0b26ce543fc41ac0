package datacanvas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithLogger(t *testing.T) {
	logger := zap.NewNop()
	client, err := NewClient(testConfig(""), WithLogger(logger))
	require.NoError(t, err)
	assert.Same(t, logger, client.logger)
}

func TestLoggingTransport(t *testing.T) {
	t.Run("logs successful request", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "99")
			writeJSON(w, http.StatusOK, `{}`)
		}))
		defer server.Close()

		client := &http.Client{Transport: &LoggingTransport{Logger: zap.New(core)}}
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/access-keys/external/devices", nil)
		req.Header.Set(headerRequestID, "req-1")
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, 1, logs.FilterMessage("http_request").Len())
		reqEntry := logs.FilterMessage("http_request").All()[0]
		assert.Equal(t, "req-1", reqEntry.ContextMap()["request_id"])
		assert.Equal(t, http.MethodPost, reqEntry.ContextMap()["method"])

		respEntries := logs.FilterMessage("http_response").All()
		require.Len(t, respEntries, 1)
		assert.Equal(t, zapcore.DebugLevel, respEntries[0].Level)
		assert.Equal(t, "99", respEntries[0].ContextMap()["rate_limit_remaining"])
		assert.EqualValues(t, 200, respEntries[0].ContextMap()["status"])
	})

	t.Run("logs error status at higher level", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, `{"message":"domain not allowed"}`)
		}))
		defer server.Close()

		client := &http.Client{Transport: &LoggingTransport{Base: http.DefaultTransport, Logger: zap.New(core)}}
		resp, err := client.Post(server.URL, "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()

		entries := logs.FilterMessage("http_response").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("logs transport error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		rt := &recordingTransport{err: errors.New("connection reset")}

		client := &http.Client{Transport: &LoggingTransport{Base: rt, Logger: zap.New(core)}}
		_, err := client.Post("https://api.example.com/x", "application/json", nil)
		require.Error(t, err)

		entries := logs.FilterMessage("http_error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "connection reset", entries[0].ContextMap()["error"])
	})

	t.Run("redacts transport error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		rt := &recordingTransport{err: errors.New("proxy echoed " + testSecretKey)}

		client := &http.Client{Transport: &LoggingTransport{
			Base:   rt,
			Logger: zap.New(core),
			Redact: func(s string) string { return strings.ReplaceAll(s, testSecretKey, "***") },
		}}
		_, err := client.Post("https://api.example.com/x", "application/json", nil)
		require.Error(t, err)

		entries := logs.FilterMessage("http_error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "proxy echoed ***", entries[0].ContextMap()["error"])
	})

	t.Run("nil logger passes through", func(t *testing.T) {
		rt := &recordingTransport{body: `{}`}
		client := &http.Client{Transport: &LoggingTransport{Base: rt}}
		resp, err := client.Get("https://api.example.com/x")
		require.NoError(t, err)
		resp.Body.Close()
		assert.EqualValues(t, 1, rt.calls.Load())
	})
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelForStatus(200))
	assert.Equal(t, zapcore.DebugLevel, levelForStatus(302))
	assert.Equal(t, zapcore.WarnLevel, levelForStatus(404))
	assert.Equal(t, zapcore.WarnLevel, levelForStatus(429))
	assert.Equal(t, zapcore.ErrorLevel, levelForStatus(500))
}

func TestNewLoggingHTTPClient(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	httpClient := NewLoggingHTTPClient(zap.New(core), 5*time.Second)
	assert.Equal(t, 5*time.Second, httpClient.Timeout)

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"devices":[]}`)
	}, WithHTTPClient(httpClient))

	_, err := client.Devices.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("http_request").Len())
	assert.Equal(t, 1, logs.FilterMessage("http_response").Len())
}
