package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades ~100ms of hashing for resistance to offline cracking
const bcryptCost = 12

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash hashes a throwaway random password. Used as the decoy
// for timing parity on unknown identifiers; no credential ever matches it.
func RandomPasswordHash() string {
	for i := 0; i < 3; i++ {
		if h, err := HashPassword(uuid.NewString()); err == nil {
			return h
		}
	}

	// the cost is a package constant bcrypt accepts, so this is unreachable
	// short of a broken crypto source
	panic("auth: unable to generate a random password hash")
}
