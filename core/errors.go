package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is one of the fixed error categories reported to clients.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimited
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "Validation"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindAuthorization:
		return "Authorization"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindRateLimited:
		return "RateLimited"
	default:
		return "Internal"
	}
}

// Error is a normalized error carrying a client-safe message and its kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

// KindOf reports the kind of err. Errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred"
}

// Authentication errors
var (
	ErrAccountExists      = &Error{Kind: KindConflict, Message: "User already exists"}                 // 409
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "Invalid email or password"}    // 401
	ErrEmailNotVerified   = &Error{Kind: KindAuthorization, Message: "Email not verified"}             // 403
	ErrRateLimited        = &Error{Kind: KindRateLimited, Message: "Too many requests, try again later"} // 429
)

// Session errors
var (
	ErrMissingToken   = &Error{Kind: KindUnauthenticated, Message: "Access denied. No token provided."} // 401
	ErrInvalidToken   = &Error{Kind: KindUnauthenticated, Message: "Invalid token"}                     // 401
	ErrSessionExpired = &Error{Kind: KindUnauthenticated, Message: "Session expired"}                   // 401
)

// Webhook errors
var (
	ErrWebhookForbidden = &Error{Kind: KindAuthorization, Message: "Invalid or missing webhook token"} // 403
	ErrMissingFields    = &Error{Kind: KindValidation, Message: "Missing required fields"}             // 400
)

// Upload errors
var (
	ErrFileRequired     = &Error{Kind: KindValidation, Message: "No file uploaded"}                           // 400
	ErrFileTooLarge     = &Error{Kind: KindValidation, Message: "File is too large"}                          // 400
	ErrUnsupportedImage = &Error{Kind: KindValidation, Message: "Only jpeg, png and gif images are supported"} // 400
	ErrImageNotFound    = &Error{Kind: KindNotFound, Message: "Profile image not found"}                      // 404
	ErrObjectNotFound   = &Error{Kind: KindNotFound, Message: "Object not found"}                             // 404
)

// Validation errors (client input)
var (
	ErrInvalidBody = &Error{Kind: KindValidation, Message: "Invalid request body"} // 400
	ErrEmptyPatch  = &Error{Kind: KindValidation, Message: "No fields to update"}  // 400
)

var (
	ErrAggregationTooLarge = &Error{Kind: KindInternal, Message: "supplier aggregation exceeds in-memory limit"} // 500
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired       = errors.New("storage adapter is required")
	ErrAccountsRequired      = errors.New("account provider is required")
	ErrBucketRequired        = errors.New("image bucket is required")
	ErrHTTPAdapterRequired   = errors.New("http adapter is required")
	ErrSecretRequired        = errors.New("secret is required")
	ErrSecretTooShort        = errors.New("secret too short")
	ErrWebhookSecretRequired = errors.New("webhook secret is required")
)

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", title(resource))}
}

func InvalidID(resource string) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf("Invalid %s ID format", resource)}
}

func Validation(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
