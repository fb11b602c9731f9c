package client

import (
	"context"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// Identity is the account backend used by the session coordinator.
type Identity interface {
	// CreateAccount registers email/password and signs the new account in.
	CreateAccount(ctx context.Context, email, password string) (*models.Session, error)

	SignIn(ctx context.Context, email, password string) (*models.Session, error)

	// SignOut ends the session. The local session is dropped even when the
	// backend call fails.
	SignOut(ctx context.Context) error

	SetDisplayName(ctx context.Context, name string) error
	ChangePassword(ctx context.Context, newPassword string) error
	Reauthenticate(ctx context.Context, email, password string) error

	// SessionChanges first delivers the current session (nil when signed
	// out) and then every change, in order, until ctx is done.
	SessionChanges(ctx context.Context) <-chan *models.Session
}
