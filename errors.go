package datacanvas

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a DataCanvas client error.
type Kind int

const (
	// KindGeneric is the catch-all for failures that fit no other kind.
	KindGeneric Kind = iota
	// KindConfiguration indicates an invalid Config or Option at construction.
	KindConfiguration
	// KindValidation indicates rejected request parameters, locally or by the server (400, 422, other 4xx).
	KindValidation
	// KindAuthentication indicates invalid or missing access keys (401).
	KindAuthentication
	// KindAuthorization indicates valid keys without permission, or a disallowed domain (403).
	KindAuthorization
	// KindNotFound indicates a missing datatable or device (404).
	KindNotFound
	// KindRateLimit indicates too many requests (429).
	KindRateLimit
	// KindServer indicates a remote failure (5xx).
	KindServer
	// KindNetwork indicates a transport failure, timeout, or malformed success body.
	KindNetwork
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "client error"
	case KindConfiguration:
		return "configuration error"
	case KindValidation:
		return "validation error"
	case KindAuthentication:
		return "authentication error"
	case KindAuthorization:
		return "authorization error"
	case KindNotFound:
		return "not found"
	case KindRateLimit:
		return "rate limited"
	case KindServer:
		return "server error"
	case KindNetwork:
		return "network error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Retryable reports whether an operation failing with this kind may succeed
// if the caller tries again later. The client itself never retries.
func (k Kind) Retryable() bool {
	return k == KindRateLimit || k == KindServer || k == KindNetwork
}

// Sentinel errors, one per Kind. Every *Error matches the sentinel of its kind
// with errors.Is.
var (
	ErrGeneric        = errors.New("datacanvas: client error")
	ErrConfiguration  = errors.New("datacanvas: configuration error")
	ErrValidation     = errors.New("datacanvas: validation error")
	ErrAuthentication = errors.New("datacanvas: authentication failed")
	ErrAuthorization  = errors.New("datacanvas: authorization failed")
	ErrNotFound       = errors.New("datacanvas: resource not found")
	ErrRateLimited    = errors.New("datacanvas: rate limited")
	ErrServer         = errors.New("datacanvas: server error")
	ErrNetwork        = errors.New("datacanvas: network error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindValidation:
		return ErrValidation
	case KindAuthentication:
		return ErrAuthentication
	case KindAuthorization:
		return ErrAuthorization
	case KindNotFound:
		return ErrNotFound
	case KindRateLimit:
		return ErrRateLimited
	case KindServer:
		return ErrServer
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrGeneric
	}
}

// Error is the error type returned by every client operation.
type Error struct {
	Kind Kind

	// StatusCode is the HTTP status that produced the error, or 0 when no
	// response was received.
	StatusCode int

	// Message is safe to log; it never contains the secret key.
	Message string

	// RequestID is the X-Request-ID sent with the failing request, if any.
	RequestID string

	// RetryAfter is the server's Retry-After hint on 429 responses.
	RetryAfter time.Duration

	// RateLimit holds the X-RateLimit-* headers of a 429 response, if present.
	RateLimit *RateLimitInfo

	// Err is the underlying cause, if any. It is not included in Error().
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "datacanvas: " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RequestID != "" {
		msg += " (request_id: " + e.RequestID + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func validationErrorf(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

func configurationErrorf(format string, args ...any) *Error {
	return newError(KindConfiguration, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err. Errors that did not come from this package
// report KindGeneric.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// IsRetryable reports whether err has a retryable kind.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind.Retryable()
}

// IsConfiguration returns true if the client could not be constructed from its Config.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsValidation returns true if request parameters were rejected.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsAuthentication returns true if the access keys were rejected.
func IsAuthentication(err error) bool { return errors.Is(err, ErrAuthentication) }

// IsAuthorization returns true if the keys lack permission for the request.
func IsAuthorization(err error) bool { return errors.Is(err, ErrAuthorization) }

// IsNotFound returns true if the datatable or device does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsRateLimited returns true if the server rejected the request for rate.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsServer returns true on a remote 5xx failure.
func IsServer(err error) bool { return errors.Is(err, ErrServer) }

// IsNetwork returns true if no usable response was received.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
