package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-agent/internal/domain/auth"
)

const uniqueViolation = "23505"

// PostgresRepository persists accounts and their external identities in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, email, nickname, password_hash, created_at`

// Create inserts a new account row.
func (r *PostgresRepository) Create(ctx context.Context, email, nickname, passwordHash string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO app_users (email, nickname, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns, email, nickname, passwordHash)
	user, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return auth.User{}, auth.ErrEmailExists
	}
	return user, err
}

// GetByEmail fetches an account by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM app_users WHERE email = $1`, email)
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM app_users WHERE id = $1`, id)
}

const identityColumns = `id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at`

// GetIdentity fetches the identity linked to a provider subject.
func (r *PostgresRepository) GetIdentity(ctx context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	return r.getIdentity(ctx, `SELECT `+identityColumns+` FROM user_identities WHERE provider = $1 AND provider_subject = $2`, provider, providerSubject)
}

// GetIdentityByUser fetches a user's identity for a provider.
func (r *PostgresRepository) GetIdentityByUser(ctx context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	return r.getIdentity(ctx, `SELECT `+identityColumns+` FROM user_identities WHERE user_id = $1 AND provider = $2`, userID, provider)
}

// UpsertIdentity inserts the identity or refreshes its email and refresh token.
func (r *PostgresRepository) UpsertIdentity(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_identities (user_id, provider, provider_subject, provider_email, refresh_token)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_subject) DO UPDATE
		SET provider_email = COALESCE(NULLIF(EXCLUDED.provider_email, ''), user_identities.provider_email),
		    refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), user_identities.refresh_token),
		    updated_at = NOW()
		RETURNING `+identityColumns,
		identity.UserID, identity.Provider, identity.ProviderSubject, identity.ProviderEmail, identity.RefreshToken)
	return scanIdentity(row)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg any) (auth.User, bool, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, nil
}

func (r *PostgresRepository) getIdentity(ctx context.Context, query string, args ...any) (auth.Identity, bool, error) {
	identity, err := scanIdentity(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Identity{}, false, nil
	}
	if err != nil {
		return auth.Identity{}, false, err
	}
	return identity, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	if err := row.Scan(&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.CreatedAt); err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

func scanIdentity(row rowScanner) (auth.Identity, error) {
	var id auth.Identity
	if err := row.Scan(&id.ID, &id.UserID, &id.Provider, &id.ProviderSubject, &id.ProviderEmail, &id.RefreshToken, &id.CreatedAt, &id.UpdatedAt); err != nil {
		return auth.Identity{}, err
	}
	return id, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
