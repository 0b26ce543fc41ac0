package datacanvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/datacanvas/datacanvas-go/internal/version"
)

const headerRequestID = "X-Request-ID"

func userAgent() string {
	return "datacanvas-go/" + version.Version
}

// credentials are attached to every request body.
type credentials struct {
	clientKey string
	secretKey string
	projectID int
}

// apply writes the credential fields into body, replacing any caller values
// under the same names.
func (c credentials) apply(body map[string]any) {
	body["access_key_client"] = c.clientKey
	body["access_key_secret"] = c.secretKey
	body["project_id"] = c.projectID
}

// redact removes the secret key from s.
func (c credentials) redact(s string) string {
	if c.secretKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.secretKey, "***")
}

// envelope is implemented by response types that can check a decoded body
// for required fields.
type envelope interface {
	validate() error
}

// executor sends authenticated POST requests. All fields are set once at
// construction.
type executor struct {
	baseURL    string
	creds      credentials
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics
	limiter    *rate.Limiter
	userAgent  string
	origin     string
}

// send posts fields to endpoint and decodes a 2xx body into T.
func send[T any](ctx context.Context, e *executor, endpoint string, fields map[string]any) (*T, error) {
	start := time.Now()
	out, err := sendOnce[T](ctx, e, endpoint, fields)
	e.metrics.observe(endpoint, time.Since(start), err)
	return out, err
}

func sendOnce[T any](ctx context.Context, e *executor, endpoint string, fields map[string]any) (*T, error) {
	requestID := uuid.NewString()

	data, err := e.post(ctx, endpoint, requestID, fields)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		preview := truncatePreview(e.creds.redact(string(data)))
		return nil, e.networkError(requestID, "malformed response body: "+preview, err)
	}
	if env, ok := any(&out).(envelope); ok {
		if err := env.validate(); err != nil {
			return nil, e.networkError(requestID, "malformed response body: "+err.Error(), err)
		}
	}
	return &out, nil
}

// buildBody overlays the credentials on the caller fields and encodes the result.
// Map keys are encoded in sorted order, so equal inputs give equal bytes.
func (e *executor) buildBody(fields map[string]any) ([]byte, error) {
	body := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		body[k] = v
	}
	e.creds.apply(body)
	return json.Marshal(body)
}

// post performs one request and returns the body of a 2xx response.
func (e *executor) post(ctx context.Context, endpoint, requestID string, fields map[string]any) ([]byte, error) {
	logger := e.logger.With(
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
	)

	payload, err := e.buildBody(fields)
	if err != nil {
		return nil, &Error{
			Kind:      KindValidation,
			Message:   "request body cannot be encoded: " + e.creds.redact(err.Error()),
			RequestID: requestID,
			Err:       err,
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			logger.Warn("api_throttled", zap.Error(err))
			return nil, e.networkError(requestID, "rate limiter: "+err.Error(), err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{
			Kind:      KindGeneric,
			Message:   "failed to create request: " + e.creds.redact(err.Error()),
			RequestID: requestID,
			Err:       err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set(headerRequestID, requestID)
	if e.origin != "" {
		req.Header.Set("Origin", e.origin)
	}

	logger.Debug("api_request")
	start := time.Now()

	resp, err := e.httpClient.Do(req)
	if err != nil {
		logger.Error("api_error", zap.Duration("duration", time.Since(start)), zap.String("error", e.creds.redact(err.Error())))
		return nil, e.networkError(requestID, "request failed: "+err.Error(), err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if readErr != nil {
			return nil, e.networkError(requestID, "failed to read response body: "+readErr.Error(), readErr)
		}
		logger.Debug("api_response", zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))
		return respBody, nil
	}

	// The status decides the kind even when the body is cut short.
	apiErr := MapStatus(resp.StatusCode, e.creds.redact(errorMessage(resp, respBody)))
	apiErr.RequestID = requestID
	apiErr.Err = readErr
	if apiErr.Kind == KindRateLimit {
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		apiErr.RateLimit = parseRateLimitHeaders(resp.Header)
	}

	logger.Check(levelForStatus(resp.StatusCode), "api_response").Write(
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
		zap.Stringer("kind", apiErr.Kind),
		zap.String("message", apiErr.Message),
	)
	return nil, apiErr
}

func (e *executor) networkError(requestID, msg string, cause error) *Error {
	return &Error{
		Kind:      KindNetwork,
		Message:   e.creds.redact(msg),
		RequestID: requestID,
		Err:       cause,
	}
}

// errorMessage extracts a human-readable message from an error response.
// It accepts {"message": "..."}, {"error": "..."} and {"error": {"message": "..."}},
// falling back to the status line text.
func errorMessage(resp *http.Response, body []byte) string {
	var parsed struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if len(parsed.Error) > 0 {
			var s string
			if err := json.Unmarshal(parsed.Error, &s); err == nil && s != "" {
				return s
			}
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(parsed.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
		}
	}

	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode)
}

const previewLen = 200

// truncatePreview shortens s for error messages without splitting a rune.
func truncatePreview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	cut := previewLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
