package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt
type Hasher struct {
	cost int
}

// NewHasher creates a bcrypt hasher; a zero cost selects bcrypt.DefaultCost
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext password
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored hash. Malformed hashes never match.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
