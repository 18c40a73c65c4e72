package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"volunteerhub/pkg/types"
)

// Cost is the bcrypt work factor. Tests lower it.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	return string(bytes), err
}

// CheckPassword returns types.ErrInvalidCredentials on a mismatch.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return types.ErrInvalidCredentials
	}
	return err
}
