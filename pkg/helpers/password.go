package helpers

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

// PasswordCost is the bcrypt work factor used for every stored digest.
const PasswordCost = bcrypt.DefaultCost

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// HashPassword hashes the plain text password using bcrypt with a fresh salt.
// The salt and cost are embedded in the returned digest.
func HashPassword(plain string) (string, error) {
	return BcryptHasher{Cost: PasswordCost}.Hash(plain)
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BcryptHasher implements entity.PasswordHasher.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	if !utf8.ValidString(plain) {
		return "", fmt.Errorf("%w: password is not valid UTF-8", entity.ErrHashing)
	}
	if len(plain) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password exceeds %d bytes", entity.ErrHashing, maxPasswordBytes)
	}
	cost := h.Cost
	if cost == 0 {
		cost = PasswordCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrHashing, err)
	}
	return string(b), nil
}

var _ entity.PasswordHasher = BcryptHasher{}
