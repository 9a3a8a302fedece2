package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AuthService hashes and verifies passwords.
type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(plain, hash string) bool
}

type authService struct {
	cost int
}

func NewAuthService(cost int) AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &authService{cost: cost}
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword returns false for any mismatch or malformed hash, it never panics.
func (s *authService) CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
