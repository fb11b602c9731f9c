package session

import (
	"github.com/dmitrijs2005/gophprofile/internal/client/i18n"
	"github.com/dmitrijs2005/gophprofile/internal/client/identity"
)

// ErrorCode classifies a failed coordinator operation.
type ErrorCode string

const (
	CodeNetworkOffline     ErrorCode = "NetworkOffline"
	CodeInvalidCredentials ErrorCode = "InvalidCredentials"
	CodeAccountExists      ErrorCode = "AccountExists"
	CodeInvalidEmail       ErrorCode = "InvalidEmail"
	CodeWeakPassword       ErrorCode = "WeakPassword"
	CodeTooManyAttempts    ErrorCode = "TooManyAttempts"
	CodeReauthRequired     ErrorCode = "ReauthRequired"
	CodeUnauthenticated    ErrorCode = "Unauthenticated"
	CodeValidationFailed   ErrorCode = "ValidationFailed"
	CodeUnknown            ErrorCode = "Unknown"
)

var messageKeys = map[ErrorCode]string{
	CodeNetworkOffline:     "error.network-offline",
	CodeInvalidCredentials: "error.invalid-credentials",
	CodeAccountExists:      "error.account-exists",
	CodeInvalidEmail:       "error.invalid-email",
	CodeWeakPassword:       "error.weak-password",
	CodeTooManyAttempts:    "error.too-many-attempts",
	CodeReauthRequired:     "error.reauth-required",
	CodeUnauthenticated:    "error.unauthenticated",
	CodeValidationFailed:   "error.validation-failed",
	CodeUnknown:            i18n.KeyUnexpected,
}

// MessageKey returns the catalog key of the generic message for c.
func (c ErrorCode) MessageKey() string {
	if key, ok := messageKeys[c]; ok {
		return key
	}
	return i18n.KeyUnexpected
}

var backendCodes = map[string]ErrorCode{
	identity.CodeUserNotFound:         CodeInvalidCredentials,
	identity.CodeWrongPassword:        CodeInvalidCredentials,
	identity.CodeInvalidCredential:    CodeInvalidCredentials,
	identity.CodeEmailAlreadyInUse:    CodeAccountExists,
	identity.CodeInvalidEmail:         CodeInvalidEmail,
	identity.CodeWeakPassword:         CodeWeakPassword,
	identity.CodeTooManyRequests:      CodeTooManyAttempts,
	identity.CodeRequiresRecentLogin:  CodeReauthRequired,
	identity.CodeNetworkRequestFailed: CodeNetworkOffline,
	identity.CodeUserTokenExpired:     CodeUnauthenticated,
	identity.CodeIDTokenExpired:       CodeUnauthenticated,
}

// ClassifyBackendCode maps a backend error code such as
// "auth/wrong-password" onto the taxonomy. Unrecognized codes are
// CodeUnknown.
func ClassifyBackendCode(code string) ErrorCode {
	if c, ok := backendCodes[code]; ok {
		return c
	}
	return CodeUnknown
}

// AccountError is the error form of a failed Result.
type AccountError struct {
	Code    ErrorCode
	Message string
}

func (e *AccountError) Error() string {
	return string(e.Code) + ": " + e.Message
}
