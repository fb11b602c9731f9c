package client

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophprofile/internal/client/identity"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotSignedIn  = errors.New("not signed in")
)

// AccountError is a failure reported by the identity backend. Code is the
// backend error code, e.g. "auth/wrong-password".
type AccountError struct {
	Code string
	Err  error
}

func (e *AccountError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *AccountError) Unwrap() error {
	return e.Err
}

// CodeOf returns the backend code carried by err, or "".
func CodeOf(err error) string {
	var ae *AccountError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return &AccountError{Code: identity.CodeNetworkRequestFailed, Err: ErrUnavailable}
	case codes.Unauthenticated, codes.PermissionDenied:
		code := st.Message()
		if !identity.IsCode(code) || code == identity.CodeIDTokenExpired {
			code = identity.CodeUserTokenExpired
		}
		return &AccountError{Code: code, Err: ErrUnauthorized}
	}

	if identity.IsCode(st.Message()) {
		return &AccountError{Code: st.Message()}
	}
	return fmt.Errorf("rpc error: %w", err)
}
