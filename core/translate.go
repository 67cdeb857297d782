package core

import (
	"errors"
	"fmt"
)

// StoreError is a failure reported by the remote store or auth provider,
// identified by the provider's own error code.
type StoreError struct {
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Provider error codes
const (
	CodeNoRows           = "PGRST116" // row not found / .single() on zero rows
	CodeBadRelationship  = "PGRST201"
	CodeMissingColumn    = "PGRST204"
	CodeUniqueViolation  = "23505"
	CodeForeignKey       = "23503"
	CodeNotNull          = "23502"
	CodeCheckViolation   = "23514"
	CodeInvalidText      = "22P02" // e.g. invalid input syntax for type uuid
	CodeUndefinedTable   = "42P01"
	CodeUndefinedColumn  = "42703"
	CodeInsufficientPriv = "42501"

	CodeRateLimit          = "over_request_rate_limit"
	CodeEmailRateLimit     = "over_email_send_rate_limit"
	CodeUserExists         = "user_already_exists"
	CodeEmailExists        = "email_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailNotConfirmed  = "email_not_confirmed"
	CodeWeakPassword       = "weak_password"
	CodeValidationFailed   = "validation_failed"
)

type translation struct {
	kind    Kind
	message func(resource string) string
	// use the provider's message when it has one
	providerMessage bool
}

func fixed(msg string) func(string) string {
	return func(string) string { return msg }
}

func notFoundMessage(r string) string { return fmt.Sprintf("%s not found", title(r)) }
func existsMessage(r string) string { return fmt.Sprintf("%s already exists", title(r)) }
func invalidDataMessage(r string) string { return fmt.Sprintf("Invalid %s data", r) }
func invalidIDMessage(r string) string { return fmt.Sprintf("Invalid %s ID format", r) }
func unexpectedMessage(r string) string { return fmt.Sprintf("An unexpected error occurred while processing %s", r) }
func permissionMessage(string) string { return "You do not have permission to perform this action" }

var codeTable = map[string]translation{
	CodeNoRows:           {kind: KindNotFound, message: notFoundMessage},
	CodeBadRelationship:  {kind: KindValidation, message: invalidDataMessage},
	CodeMissingColumn:    {kind: KindConflict, message: existsMessage},
	CodeUniqueViolation:  {kind: KindConflict, message: existsMessage},
	CodeForeignKey:       {kind: KindValidation, message: invalidDataMessage},
	CodeNotNull:          {kind: KindValidation, message: invalidDataMessage},
	CodeCheckViolation:   {kind: KindValidation, message: invalidDataMessage},
	CodeInvalidText:      {kind: KindValidation, message: invalidIDMessage},
	CodeUndefinedTable:   {kind: KindInternal, message: unexpectedMessage},
	CodeUndefinedColumn:  {kind: KindInternal, message: unexpectedMessage},
	CodeInsufficientPriv: {kind: KindAuthorization, message: permissionMessage},

	CodeRateLimit:          {kind: KindRateLimited, message: fixed(ErrRateLimited.Message)},
	CodeEmailRateLimit:     {kind: KindRateLimited, message: fixed(ErrRateLimited.Message)},
	CodeUserExists:         {kind: KindConflict, message: fixed(ErrAccountExists.Message)},
	CodeEmailExists:        {kind: KindConflict, message: fixed(ErrAccountExists.Message)},
	CodeInvalidCredentials: {kind: KindUnauthenticated, message: fixed(ErrInvalidCredentials.Message)},
	CodeEmailNotConfirmed:  {kind: KindAuthorization, message: fixed(ErrEmailNotVerified.Message)},
	CodeWeakPassword:       {kind: KindValidation, message: invalidDataMessage, providerMessage: true},
	CodeValidationFailed:   {kind: KindValidation, message: invalidDataMessage, providerMessage: true},
}

// KnownCodes lists every provider code with an explicit translation.
func KnownCodes() []string {
	codes := make([]string, 0, len(codeTable))
	for code := range codeTable {
		codes = append(codes, code)
	}
	return codes
}

// Translate maps err onto the taxonomy. Errors already normalized pass through,
// store errors go through the code table, everything else becomes Internal.
func Translate(err error, resource string) error {
	if err == nil {
		return nil
	}

	var normalized *Error
	if errors.As(err, &normalized) {
		return err
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		if t, ok := codeTable[storeErr.Code]; ok {
			msg := t.message(resource)
			if t.providerMessage && storeErr.Message != "" {
				msg = storeErr.Message
			}
			return &Error{Kind: t.kind, Message: msg, Err: err}
		}
	}

	return &Error{Kind: KindInternal, Message: unexpectedMessage(resource), Err: err}
}
