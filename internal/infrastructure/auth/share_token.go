// Package auth issues and validates the signed tokens behind external
// budget share links.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrRevokedToken  = errors.New("token has been revoked")
)

// ShareClaims are the claims carried by a budget share token. The
// subject is the budget id; the tenant travels in a private claim so a
// token can never be replayed against another tenant.
type ShareClaims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
}

// ShareToken is an issued share link token together with its metadata.
type ShareToken struct {
	Token     string    `json:"token"`
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ShareTokenService signs and validates budget share tokens.
type ShareTokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewShareTokenService creates a share token service from configuration.
func NewShareTokenService(cfg config.ShareTokenConfig) *ShareTokenService {
	return &ShareTokenService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// Generate signs a token granting read access to one budget of one
// tenant until the configured expiration.
func (s *ShareTokenService) Generate(tenantID, budgetID int64) (*ShareToken, error) {
	now := time.Now()
	jti := uuid.New().String()

	claims := &ShareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(budgetID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID: strconv.FormatInt(tenantID, 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &ShareToken{
		Token:     signed,
		JTI:       jti,
		ExpiresAt: now.Add(s.expiration),
	}, nil
}

// Validate parses a share token and returns the tenant and budget it
// grants access to.
func (s *ShareTokenService) Validate(tokenString string) (tenantID, budgetID int64, jti string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &ShareClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, 0, "", ErrExpiredToken
		}
		return 0, 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*ShareClaims)
	if !ok || !token.Valid {
		return 0, 0, "", ErrInvalidClaims
	}

	tenantID, err = strconv.ParseInt(claims.TenantID, 10, 64)
	if err != nil {
		return 0, 0, "", ErrInvalidClaims
	}
	budgetID, err = strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, 0, "", ErrInvalidClaims
	}
	return tenantID, budgetID, claims.ID, nil
}

// Expiration returns the configured token lifetime.
func (s *ShareTokenService) Expiration() time.Duration {
	return s.expiration
}
