package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "quisine-api"

type JWTClaim struct {
	TenantID string `json:"userId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates the bearer tokens handed out at login.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) GenerateToken(tenantID, email string) (string, time.Time, error) {
	issued := m.now()
	expires := issued.Add(m.ttl)
	claims := &JWTClaim{
		TenantID: tenantID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

func (m *TokenManager) ValidateToken(signedToken string) (*JWTClaim, error) {
	claims := &JWTClaim{}
	token, err := jwt.ParseWithClaims(signedToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid || claims.TenantID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
