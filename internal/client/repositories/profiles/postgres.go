package profiles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophprofile/internal/client/migrations"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type sqlDB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// PostgresStore keeps profiles in the profiles table.
type PostgresStore struct {
	db sqlDB
}

func NewPostgresStore(db sqlDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// MigratePostgres applies the embedded profile schema.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Postgres)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, "postgres")
}

// OpenPostgres opens dsn with the pgx driver, checks it and migrates it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := MigratePostgres(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return db, nil
}

const selectProfile = `SELECT user_id, email, display_name, degree_title, graduation_year, created_at, last_access_at, active
		 FROM profiles
		 WHERE user_id = $1`

func scanProfile(row *sql.Row) (*models.ProfileRecord, error) {
	var (
		rec  models.ProfileRecord
		year sql.NullInt64
	)
	err := row.Scan(&rec.UserID, &rec.Email, &rec.DisplayName, &rec.DegreeTitle, &year,
		&rec.CreatedAt, &rec.LastAccessAt, &rec.Active)
	if err != nil {
		return nil, err
	}
	if year.Valid {
		rec.GraduationYear = int(year.Int64)
	}
	return &rec, nil
}

func nullableYear(y int) any {
	if y == 0 {
		return nil
	}
	return y
}

func (s *PostgresStore) Read(ctx context.Context, userID string) (*models.ProfileRecord, error) {
	rec, err := scanProfile(s.db.QueryRowContext(ctx, selectProfile, userID))
	if dbx.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Write(ctx context.Context, rec models.ProfileRecord) error {
	query :=
		`INSERT INTO profiles (user_id, email, display_name, degree_title, graduation_year, created_at, last_access_at, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO UPDATE SET
		   display_name = EXCLUDED.display_name,
		   degree_title = EXCLUDED.degree_title,
		   graduation_year = EXCLUDED.graduation_year,
		   last_access_at = EXCLUDED.last_access_at,
		   active = EXCLUDED.active`

	_, err := s.db.ExecContext(ctx, query,
		rec.UserID, rec.Email, rec.DisplayName, rec.DegreeTitle, nullableYear(rec.GraduationYear),
		rec.CreatedAt, rec.LastAccessAt, rec.Active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, userID string, u models.ProfileUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := scanProfile(tx.QueryRowContext(ctx, selectProfile+` FOR UPDATE`, userID))
		if dbx.IsNoRows(err) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		u.Apply(rec)

		query :=
			`UPDATE profiles
			 SET display_name = $2, degree_title = $3, graduation_year = $4, last_access_at = $5
			 WHERE user_id = $1`
		_, err = tx.ExecContext(ctx, query,
			userID, rec.DisplayName, rec.DegreeTitle, nullableYear(rec.GraduationYear), rec.LastAccessAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}
