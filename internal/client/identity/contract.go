// Package identity describes the wire contract of the identity backend: a
// unary gRPC service whose requests and responses are google.protobuf.Struct
// messages, plus the error codes carried in status messages.
//
// The client adapter in package client speaks it through Invoke; test doubles
// and backends implement Server and register it with RegisterServer.
package identity

import (
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gophprofile.identity.v1.Identity"

// Method names.
const (
	SignUp         = "SignUp"
	SignIn         = "SignIn"
	SignOut        = "SignOut"
	UpdateProfile  = "UpdateProfile"
	ChangePassword = "ChangePassword"
	Reauthenticate = "Reauthenticate"
	RefreshToken   = "RefreshToken"
)

// FullMethod returns "/<service>/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Message field names.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldNewPassword  = "new_password"
	FieldUserID       = "user_id"
	FieldDisplayName  = "display_name"
	FieldIDToken      = "id_token"
	FieldRefreshToken = "refresh_token"
)

// Metadata keys sent with every call.
const (
	HeaderAuthorization = "authorization"
	HeaderRequestID     = "x-request-id"
)

// Backend error codes. The identity service puts one of these in the status
// message of a failed call.
const (
	CodeEmailAlreadyInUse    = "auth/email-already-in-use"
	CodeInvalidEmail         = "auth/invalid-email"
	CodeOperationNotAllowed  = "auth/operation-not-allowed"
	CodeWeakPassword         = "auth/weak-password"
	CodeUserDisabled         = "auth/user-disabled"
	CodeUserNotFound         = "auth/user-not-found"
	CodeWrongPassword        = "auth/wrong-password"
	CodeInvalidCredential    = "auth/invalid-credential"
	CodeTooManyRequests      = "auth/too-many-requests"
	CodeRequiresRecentLogin  = "auth/requires-recent-login"
	CodeNetworkRequestFailed = "auth/network-request-failed"
	CodeIDTokenExpired       = "auth/id-token-expired"
	CodeUserTokenExpired     = "auth/user-token-expired"
)

// IsCode reports whether s looks like a backend error code.
func IsCode(s string) bool {
	return strings.HasPrefix(s, "auth/") && len(s) > len("auth/")
}

// Account is the payload of SignUp, SignIn and RefreshToken responses.
type Account struct {
	UserID       string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
}

// Struct encodes a.
func (a Account) Struct() *structpb.Struct {
	return Fields(map[string]string{
		FieldUserID:       a.UserID,
		FieldEmail:        a.Email,
		FieldDisplayName:  a.DisplayName,
		FieldIDToken:      a.IDToken,
		FieldRefreshToken: a.RefreshToken,
	})
}

// DecodeAccount reads an Account from s. Missing fields are empty.
func DecodeAccount(s *structpb.Struct) Account {
	return Account{
		UserID:       String(s, FieldUserID),
		Email:        String(s, FieldEmail),
		DisplayName:  String(s, FieldDisplayName),
		IDToken:      String(s, FieldIDToken),
		RefreshToken: String(s, FieldRefreshToken),
	}
}

// Fields builds a Struct of string values.
func Fields(kv map[string]string) *structpb.Struct {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(kv))}
	for k, v := range kv {
		out.Fields[k] = structpb.NewStringValue(v)
	}
	return out
}

// String returns the string field key of s, or "".
func String(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}
