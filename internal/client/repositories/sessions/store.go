// Package sessions persists the signed-in session locally so a restarted
// client can restore it before the identity backend is reachable.
package sessions

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// ErrNoSession is returned by Load when nothing is stored.
var ErrNoSession = errors.New("no stored session")

type Store interface {
	Save(ctx context.Context, s models.StoredSession) error
	Load(ctx context.Context) (*models.StoredSession, error)
	Clear(ctx context.Context) error
}
