package datacanvas

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WithLogger configures a structured logger for the client.
// When set, the client logs every API request and its outcome. Request and
// response bodies are never logged.
//
// Example:
//
//	logger, _ := zap.NewProduction()
//	client, _ := datacanvas.NewClient(cfg, datacanvas.WithLogger(logger))
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// LoggingTransport wraps an http.RoundTripper and logs requests/responses.
// Transport errors may quote the request body, which carries the secret key;
// set Redact to scrub it from logged errors.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *zap.Logger
	Redact func(string) string
}

// RoundTrip implements http.RoundTripper with logging.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		return base.RoundTrip(req)
	}

	start := time.Now()
	logger.Debug("http_request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.String("request_id", req.Header.Get(headerRequestID)),
	)

	resp, err := base.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		msg := err.Error()
		if t.Redact != nil {
			msg = t.Redact(msg)
		}
		logger.Error("http_error",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.Duration("duration", duration),
			zap.String("error", msg),
		)
		return resp, err
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		fields = append(fields, zap.String("rate_limit_remaining", remaining))
	}
	logger.Check(levelForStatus(resp.StatusCode), "http_response").Write(fields...)

	return resp, nil
}

func levelForStatus(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	default:
		return zapcore.DebugLevel
	}
}

// NewLoggingHTTPClient returns an *http.Client whose transport logs every
// round trip. Pass it to WithHTTPClient. Errors are logged unredacted; build a
// LoggingTransport with Redact when the transport may echo request bodies.
func NewLoggingHTTPClient(logger *zap.Logger, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &LoggingTransport{
			Base:   newTransport(),
			Logger: logger,
		},
	}
}
