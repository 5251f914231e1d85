package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serroba/secretdrop/internal/link"
)

// Schema is the table backing PostgresStore. Applied by EnsureSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS links (
	handle          TEXT PRIMARY KEY,
	text_ciphertext BYTEA,
	has_file        BOOLEAN NOT NULL DEFAULT FALSE,
	file_name       TEXT,
	mime_type       TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	expires_at      TIMESTAMPTZ,
	max_views       INTEGER,
	views           INTEGER NOT NULL DEFAULT 0
)`

// PostgresStore is a PostgreSQL implementation of link.Repository. The
// view-counter increment is a single UPDATE .. RETURNING statement, so it
// is atomic across concurrent callers.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the links table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, Schema)

	return err
}

func (p *PostgresStore) Insert(ctx context.Context, l *link.Link) error {
	query := `
		INSERT INTO links (handle, text_ciphertext, has_file, file_name, mime_type,
			created_at, expires_at, max_views, views)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		string(l.Handle),
		l.TextCiphertext,
		l.HasFile,
		nullableString(l.FileName),
		nullableString(l.MimeType),
		l.CreatedAt,
		l.ExpiresAt,
		l.MaxViews,
		l.Views,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return link.ErrHandleTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetByHandle(ctx context.Context, handle link.Handle) (*link.Link, error) {
	query := `
		SELECT handle, text_ciphertext, has_file, file_name, mime_type,
			created_at, expires_at, max_views, views
		FROM links
		WHERE handle = $1
	`

	var l link.Link

	var fileName, mimeType *string

	err := p.pool.QueryRow(ctx, query, string(handle)).Scan(
		&l.Handle,
		&l.TextCiphertext,
		&l.HasFile,
		&fileName,
		&mimeType,
		&l.CreatedAt,
		&l.ExpiresAt,
		&l.MaxViews,
		&l.Views,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	if fileName != nil {
		l.FileName = *fileName
	}

	if mimeType != nil {
		l.MimeType = *mimeType
	}

	return &l, nil
}

func (p *PostgresStore) IncrementViews(ctx context.Context, handle link.Handle) (int, error) {
	query := `
		UPDATE links
		SET views = views + 1
		WHERE handle = $1
		RETURNING views
	`

	var views int

	err := p.pool.QueryRow(ctx, query, string(handle)).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, link.ErrNotFound
		}

		return 0, err
	}

	return views, nil
}

func (p *PostgresStore) DeleteIfExists(ctx context.Context, handle link.Handle) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM links WHERE handle = $1`, string(handle))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ link.Repository = (*PostgresStore)(nil)
