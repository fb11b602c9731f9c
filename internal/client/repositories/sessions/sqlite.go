package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
)

// SQLiteStore keeps at most one session row in the local database.
type SQLiteStore struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Save(ctx context.Context, sess models.StoredSession) error {
	if sess.SavedAt.IsZero() {
		sess.SavedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, user_id, email, display_name, id_token, refresh_token, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			display_name = excluded.display_name,
			id_token = excluded.id_token,
			refresh_token = excluded.refresh_token,
			saved_at = excluded.saved_at
	`, sess.UserID, sess.Email, sess.DisplayName, sess.IDToken, sess.RefreshToken, sess.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session[%s]: %w", sess.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.StoredSession, error) {
	var out models.StoredSession
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, display_name, id_token, refresh_token, saved_at
		FROM session WHERE id = 1
	`).Scan(&out.UserID, &out.Email, &out.DisplayName, &out.IDToken, &out.RefreshToken, &out.SavedAt)
	if dbx.IsNoRows(err) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &out, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
