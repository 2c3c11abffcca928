package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/readstack/readstack-auth/internal/model"
)

var _ model.IssuedTokenStore = (*IssuedTokenRepository)(nil)

type IssuedTokenRepository struct {
	db *Connection
}

func NewIssuedTokenRepository(db *Connection) *IssuedTokenRepository {
	return &IssuedTokenRepository{db: db}
}

func (r *IssuedTokenRepository) Create(ctx context.Context, token model.IssuedToken) error {
	const query = `
        INSERT INTO oauth_tokens (
            id, token, client_id, user_id, scope, expires_at, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.Token, token.ClientID, token.UserID, token.Scope,
		token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create issued token: %w", err)
	}
	return nil
}

func (r *IssuedTokenRepository) GetByToken(ctx context.Context, token string) (model.IssuedToken, error) {
	const query = `
        SELECT id, token, client_id, user_id, scope, expires_at, created_at, last_used_at, revoked_at
        FROM oauth_tokens WHERE token = $1
    `
	var it model.IssuedToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&it.ID, &it.Token, &it.ClientID, &it.UserID, &it.Scope,
		&it.ExpiresAt, &it.CreatedAt, &it.LastUsedAt, &it.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.IssuedToken{}, model.ErrNotFound
		}
		return model.IssuedToken{}, fmt.Errorf("failed to get issued token: %w", err)
	}
	return it, nil
}

// Revoke is idempotent: revoking an unknown or already-revoked token
// matches zero rows and is not an error.
func (r *IssuedTokenRepository) Revoke(ctx context.Context, token string) error {
	const query = `
        UPDATE oauth_tokens SET revoked_at = NOW()
        WHERE token = $1 AND revoked_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to revoke issued token: %w", err)
	}
	return nil
}

func (r *IssuedTokenRepository) RevokeAllByClient(ctx context.Context, clientID string) error {
	const query = `
        UPDATE oauth_tokens SET revoked_at = NOW()
        WHERE client_id = $1 AND revoked_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, clientID); err != nil {
		return fmt.Errorf("failed to revoke issued tokens by client: %w", err)
	}
	return nil
}

func (r *IssuedTokenRepository) Touch(ctx context.Context, token string, at time.Time) error {
	const query = `
        UPDATE oauth_tokens SET last_used_at = $2 WHERE token = $1
    `
	if _, err := r.db.Exec(ctx, query, token, at); err != nil {
		return fmt.Errorf("failed to touch issued token: %w", err)
	}
	return nil
}
