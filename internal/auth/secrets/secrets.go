package secrets

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "anuragmeds/pkg/domain-errors"
)

// cost 10 keeps hashing expensive enough to slow offline guessing without
// making login noticeably slow.
const hashCost = 10

// Hash creates a bcrypt hash of the provided password. The salt is embedded
// in the output, so equal passwords produce different digests across calls.
func Hash(password string) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks if a plaintext password matches a bcrypt hash. A malformed
// digest is reported the same way as a mismatch so callers cannot
// distinguish the two.
func Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return nil
}
