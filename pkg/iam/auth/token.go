package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies bearer tokens
type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, email kernel.Email, role kernel.UserRole) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// TokenClaims are the claims carried by an access token
type TokenClaims struct {
	UserID kernel.UserID   `json:"user_id"`
	Email  kernel.Email    `json:"email"`
	Role   kernel.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs tokens with HMAC-SHA256
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	now            func() time.Time
}

// NewJWTService creates a JWT token service
func NewJWTService(secretKey string, accessTokenTTL time.Duration, issuer string) *JWTService {
	return &JWTService{
		secretKey:      []byte(secretKey),
		accessTokenTTL: accessTokenTTL,
		issuer:         issuer,
		now:            time.Now,
	}
}

var _ TokenService = (*JWTService)(nil)

// GenerateAccessToken mints a signed token for the user
func (s *JWTService) GenerateAccessToken(userID kernel.UserID, email kernel.Email, role kernel.UserRole) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGeneration, err)
	}
	return signed, nil
}

// ValidateAccessToken parses and verifies a token string
func (s *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrInvalidToken().WithDetail("reason", "expired").WithCause(err)
		}
		return nil, ErrInvalidToken().WithCause(err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken()
	}

	if claims.UserID.IsEmpty() || !claims.Role.IsValid() {
		return nil, ErrInvalidToken().WithDetail("reason", "missing identity claims")
	}
	return claims, nil
}
