// Package profiles provides the remote ProfileStore adapters. Every adapter
// keeps one ProfileRecord per user id and offers the same three operations.
package profiles

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// ErrNotFound is returned when no record exists for a user id.
var ErrNotFound = errors.New("profile not found")

// Store is the remote profile store.
type Store interface {
	// Read returns the record of userID or ErrNotFound.
	Read(ctx context.Context, userID string) (*models.ProfileRecord, error)

	// Write creates or fully replaces the record keyed by rec.UserID.
	Write(ctx context.Context, rec models.ProfileRecord) error

	// Update merges u into an existing record. It returns ErrNotFound when
	// the record does not exist.
	Update(ctx context.Context, userID string, u models.ProfileUpdate) error
}
