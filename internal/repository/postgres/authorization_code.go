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

var _ model.AuthorizationCodeStore = (*AuthorizationCodeRepository)(nil)

type AuthorizationCodeRepository struct {
	db *Connection
}

func NewAuthorizationCodeRepository(db *Connection) *AuthorizationCodeRepository {
	return &AuthorizationCodeRepository{db: db}
}

func (r *AuthorizationCodeRepository) Create(ctx context.Context, code model.AuthorizationCode) error {
	const query = `
        INSERT INTO oauth_authorization_codes (
            id, code, client_id, user_id, redirect_uri, scope, expires_at, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `

	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		code.ID, code.Code, code.ClientID, code.UserID, code.RedirectURI, code.Scope,
		code.ExpiresAt, code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create authorization code: %w", err)
	}
	return nil
}

// Consume is the single conditional mutation that makes redemption
// exactly-once: the unused/unexpired check and the used_at write happen in
// one UPDATE, so of two racing redemptions only one sees a row.
func (r *AuthorizationCodeRepository) Consume(ctx context.Context, code string, clientID string, now time.Time) (model.AuthorizationCode, error) {
	const query = `
        UPDATE oauth_authorization_codes SET used_at = $3
        WHERE code = $1 AND client_id = $2 AND used_at IS NULL AND expires_at > $3
        RETURNING id, code, client_id, user_id, redirect_uri, scope, expires_at, created_at, used_at
    `
	var ac model.AuthorizationCode
	err := r.db.QueryRow(ctx, query, code, clientID, now).Scan(
		&ac.ID, &ac.Code, &ac.ClientID, &ac.UserID, &ac.RedirectURI, &ac.Scope,
		&ac.ExpiresAt, &ac.CreatedAt, &ac.UsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuthorizationCode{}, model.ErrNotFound
		}
		return model.AuthorizationCode{}, fmt.Errorf("failed to consume authorization code: %w", err)
	}
	return ac, nil
}
