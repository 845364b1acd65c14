// Package cryptox holds the password digests used on both sides of the login
// API: the legacy MD5 form the client sends and the argon2 verifier the dev
// server stores.
package cryptox

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// PasswordHash returns the lowercase hex MD5 digest of password, the form the
// login endpoint expects in its *_md5 fields. It is not a storage hash.
func PasswordHash(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// DeriveMasterKey stretches password with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value kept at rest.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// CheckVerifier recomputes the verifier for password and compares it to the
// stored one in constant time.
func CheckVerifier(password, salt, verifier []byte) bool {
	got := MakeVerifier(DeriveMasterKey(password, salt))
	return subtle.ConstantTimeCompare(got, verifier) == 1
}
