package pin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var (
	ErrEmpty    = errors.New("pin cannot be empty")
	ErrMismatch = errors.New("pins do not match")
	ErrWrong    = errors.New("wrong pin")
)

// MaxAttempts is how many wrong PINs unlock tolerates before giving up.
const MaxAttempts = 3

// Hash returns the hex SHA-256 digest stored in the settings file.
//
// This is an unsalted single-round digest kept for compatibility with existing
// settings files. It only deters casual access; a 4-6 digit PIN hashed this way
// is brute-forced instantly by anyone who can read the file.
func Hash(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// Verify compares pin against a stored hex digest.
func Verify(pin, stored string) bool {
	if stored == "" {
		return false
	}
	got := Hash(pin)
	return subtle.ConstantTimeCompare([]byte(got), []byte(stored)) == 1
}

// Confirm validates a new PIN and its confirmation and returns the digest.
func Confirm(next, confirm string) (string, error) {
	if next == "" {
		return "", ErrEmpty
	}
	if next != confirm {
		return "", ErrMismatch
	}
	return Hash(next), nil
}
