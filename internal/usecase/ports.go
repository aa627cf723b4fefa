package usecase

import (
	"project-service/pkg/jwtutil"
)

// PasswordHasher hashes and verifies credentials
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenService issues and verifies access tokens
type TokenService interface {
	GenerateToken(email string, tenantID string) (string, error)
	ValidateToken(token string) (*jwtutil.UserClaims, error)
}
