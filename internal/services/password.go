package services

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen       = 32
	kdfIterations = 10000
	kdfKeyLen     = 64
)

// GenPassword derives a hex encoded PBKDF2-SHA512 hash of password under a
// fresh random salt.
func GenPassword(password string) (salt, hash string, err error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(b)
	return salt, HashPassword(password, salt), nil
}

// HashPassword derives the hash of password under salt.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), kdfIterations, kdfKeyLen, sha512.New)
	return hex.EncodeToString(key)
}

// ValidPassword reports whether password hashes to hash under salt.
func ValidPassword(password, hash, salt string) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}
