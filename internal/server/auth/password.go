package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with bcrypt at the given cost.
// A cost of 0 falls back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a plaintext candidate against a stored bcrypt digest.
// A mismatch yields bcrypt.ErrMismatchedHashAndPassword; a malformed digest
// yields a distinct decoding error.
func CheckPassword(password, digest string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
}
