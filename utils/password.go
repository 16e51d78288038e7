package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes the plaintext with bcrypt. GenerateFromPassword
// embeds a fresh random salt per call, so no shared salt exists.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash 校验密码
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
