package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingClaims is returned when a token lacks sub or tenant_id.
	ErrMissingClaims = errors.New("token is missing required claims")
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey string
	Algorithm  string
	Expiration time.Duration
}

// UserClaims represents the JWT claims for user authentication.
// The subject is the user's email.
type UserClaims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config JWTConfig
	method jwt.SigningMethod
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config JWTConfig) (*JWTUtil, error) {
	if config.SigningKey == "" {
		return nil, errors.New("JWT signing key not provided")
	}
	if config.Algorithm == "" {
		config.Algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(config.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing method: %s", config.Algorithm)
	}
	return &JWTUtil{config: config, method: method, now: time.Now}, nil
}

// GenerateToken creates a signed token for the given email and tenant
func (j *JWTUtil) GenerateToken(email string, tenantID string) (string, error) {
	now := j.now()
	claims := UserClaims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(j.method, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates the signature and expiry of the token and returns its claims
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(j.config.SigningKey), nil
		},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return nil, ErrMissingClaims
	}
	return claims, nil
}
