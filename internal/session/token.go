package session

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidToken = errors.New("invalid or expired session token")
	ErrMissingToken = errors.New("session token required")
)

const tokenIssuer = "splitledger"

// Tokens issues and checks the signed tokens that tie a client to its session.
// A token names a session; it says nothing about who holds it.
type Tokens struct {
	key      []byte
	lifetime time.Duration
}

// Claims are the JWT claims of a session token. The session ID is the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// NewTokens derives an HMAC key from secret and returns a token issuer.
// An empty secret gets a random one, which makes tokens valid only for the
// life of the process. That matches the lifetime of session state anyway.
func NewTokens(secret string, lifetime time.Duration) (*Tokens, error) {
	ikm := []byte(secret)
	if len(ikm) == 0 {
		ikm = make([]byte, 32)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte("splitledger session token v1")), key); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	return &Tokens{key: key, lifetime: lifetime}, nil
}

// Issue creates a token for the session.
func (t *Tokens) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks a token and returns the session ID it names.
func (t *Tokens) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return t.key, nil
		},
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
