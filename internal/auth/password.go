package auth

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns an argon2id hash in the PHC string format.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hash, nil
}

// CheckPassword reports whether password matches hash. A malformed hash is an error.
func CheckPassword(password, hash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("failed to compare password: %w", err)
	}

	return match, nil
}
