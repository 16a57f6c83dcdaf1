package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

const (
	saltBytes  = 16
	tokenBytes = 16
)

// Credentials bundles everything minted for a new account: the per-user
// salt, the derived password hash, and the opaque bearer token. The salt
// and token are generated once and never rotate.
type Credentials struct {
	Salt  string
	Hash  string
	Token string
}

// Register derives storable credentials for a fresh password.
func Register(password string) (Credentials, error) {
	if password == "" {
		return Credentials{}, fmt.Errorf("password cannot be empty")
	}

	salt, err := randomString(saltBytes)
	if err != nil {
		return Credentials{}, fmt.Errorf("generate salt: %w", err)
	}
	token, err := NewToken()
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		Salt:  salt,
		Hash:  hashPassword(password, salt),
		Token: token,
	}, nil
}

// Verify reports whether password+salt reproduces expectedHash.
// The comparison is constant-time.
func Verify(password, salt, expectedHash string) bool {
	computed := hashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) == 1
}

// NewToken mints an opaque bearer token with 16 bytes of entropy.
func NewToken() (string, error) {
	token, err := randomString(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
