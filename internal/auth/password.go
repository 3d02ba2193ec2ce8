package auth

import "golang.org/x/crypto/bcrypt"

// Cost 12 keeps verification deliberately slow; bumping it only affects
// hashes created afterwards.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash with a candidate plaintext password
// in constant time.
func CheckPassword(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}
