// Package jwt verifies the bearer tokens minted by the external identity
// provider and turns them into a tenant.Identity.
package jwt

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wageflow/wageflow-backend/pkg/config"
	"github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/tenant"
)

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id,omitempty"`
	Role      string `json:"role,omitempty"`
	CompanyID string `json:"company_id"`
}

// Manager handles JWT operations
type Manager struct {
	config *config.JWTConfig
}

// NewManager creates a new JWT manager
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{config: cfg}
}

// GenerateAccessToken signs a token for id. The service never issues tokens
// to clients; this exists for tests and local tooling.
func (m *Manager) GenerateAccessToken(id tenant.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:    id.UserID,
		Role:      id.Role,
		CompanyID: id.CompanyID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Secret))
}

// ValidateAccessToken validates an access token and returns the claims
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(m.config.Secret), nil
	}, opts...)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.TokenExpired()
		}
		return nil, errors.TokenInvalid()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.TokenInvalid()
	}

	return claims, nil
}

// Identity converts verified claims into the caller identity. A token that
// names no valid company is forbidden, not unauthenticated.
func (c *Claims) Identity() (tenant.Identity, error) {
	if _, err := uuid.Parse(c.CompanyID); err != nil {
		return tenant.Identity{}, errors.Forbidden("token carries no company")
	}

	userID := c.UserID
	if userID == "" {
		userID = c.Subject
	}

	return tenant.Identity{CompanyID: c.CompanyID, UserID: userID, Role: c.Role}, nil
}
