package datacanvas

import "net/http"

// Default messages used when the server gives no message of its own.
var defaultMessages = map[Kind]string{
	KindGeneric:        "unexpected response",
	KindValidation:     "invalid request parameters",
	KindAuthentication: "authentication failed, check your access keys",
	KindAuthorization:  "insufficient permissions or domain not allowed",
	KindNotFound:       "resource not found",
	KindRateLimit:      "rate limit exceeded, wait before retrying",
	KindServer:         "internal server error, try again later",
}

// MapStatus converts an HTTP status code and optional server message into a
// typed error. It is a pure function of its arguments.
//
//	401            KindAuthentication
//	403            KindAuthorization
//	400, 422       KindValidation
//	404            KindNotFound
//	429            KindRateLimit
//	500-504        KindServer
//	other >= 500   KindServer
//	other 4xx      KindValidation
//	anything else  KindGeneric
func MapStatus(status int, message string) *Error {
	kind := kindForStatus(status)
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindAuthorization
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimit
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindServer
	}
	switch {
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	default:
		return KindGeneric
	}
}
