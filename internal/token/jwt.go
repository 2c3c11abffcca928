package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/readstack/readstack-auth/internal/model"
)

// Claims represents JWT claims with token kind and username.
type Claims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey  string
	refreshTTL time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key and
// refresh token lifetime. Access token lifetime is chosen per call because
// interactive and OAuth-minted tokens live differently long.
func NewJWT(secretKey string, refreshTTL time.Duration) model.TokenManager {
	return &JWT{secretKey: secretKey, refreshTTL: refreshTTL}
}

// GenerateAccessToken creates an access token valid for ttl.
func (j *JWT) GenerateAccessToken(userID uuid.UUID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  username,
		TokenType: string(model.TokenKindAccess),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a long-lived refresh token and returns its JTI.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID, username string) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTTL)),
		},
		Username:  username,
		TokenType: string(model.TokenKindRefresh),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, jti, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenClaims, error) {
	return j.parse(tokenString, model.TokenKindAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (j *JWT) ParseRefreshToken(tokenString string) (model.TokenClaims, error) {
	return j.parse(tokenString, model.TokenKindRefresh)
}

func (j *JWT) parse(tokenString string, kind model.TokenKind) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return model.TokenClaims{}, model.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return model.TokenClaims{}, model.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.TokenClaims{}, model.ErrTokenExpired
		default:
			return model.TokenClaims{}, fmt.Errorf("failed to parse token: %w", err)
		}
	}
	if !token.Valid {
		return model.TokenClaims{}, model.ErrTokenMalformed
	}
	if claims.TokenType != string(kind) {
		return model.TokenClaims{}, model.ErrWrongTokenKind
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenClaims{}, model.ErrTokenMalformed
	}

	parsed := model.TokenClaims{
		UserID:   userID,
		Username: claims.Username,
		JTI:      claims.ID,
		Kind:     kind,
	}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}

	return parsed, nil
}
