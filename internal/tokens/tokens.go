// Package tokens issues and verifies the service's own HS256 access tokens.
package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doclab/doclab/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// Subject is the identity written into a token.
type Subject struct {
	Sub   string
	Name  string
	Email string
}

// Manager signs and checks tokens with a shared secret.
type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewManager(secret, issuer string) (*Manager, error) {
	if len(secret) < 32 {
		return nil, errors.New("JWT secret must be at least 32 bytes")
	}
	return &Manager{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// GenerateAccessToken creates a signed JWT access token for s
func (m *Manager) GenerateAccessToken(s Subject, ttl time.Duration) (string, error) {
	if s.Sub == "" {
		return "", errors.New("subject is required")
	}
	now := m.now()
	claims := jwt.MapClaims{
		"iss":   m.issuer,
		"sub":   s.Sub,
		"name":  s.Name,
		"email": s.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

type claimsToken map[string]interface{}

func (t claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(map[string]interface{}(t))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verify implements middleware.Verifier. Only HS256 tokens from the configured
// issuer are accepted.
func (m *Manager) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claimsToken(claims), nil
}
