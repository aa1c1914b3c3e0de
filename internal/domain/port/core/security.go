package core

import "time"

// PasswordHasher hashes and verifies account passwords
type PasswordHasher interface {
	// Hash derives a storable hash from a plaintext password
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash
	Compare(hash, password string) error
}

// TokenClaims is the verified content of a bearer token
type TokenClaims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies bearer tokens
type TokenService interface {
	// Issue mints a token carrying the user id and email
	Issue(userID, email string) (string, time.Time, error)
	// Parse validates signature and expiry and returns the claims
	//
	// Possible errors:
	// - ErrInvalidToken: malformed token or bad signature
	// - ErrTokenExpired: token is past its expiry
	Parse(token string) (*TokenClaims, error)
}
