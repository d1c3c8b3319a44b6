package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signingKeySize = 32

// NewSigningKey returns a random HMAC-SHA256 key.
func NewSigningKey() ([]byte, error) {
	key := make([]byte, signingKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}

// TokenService issues and checks HS256 tokens carrying a subject claim.
// It keeps no server-side record of issued tokens.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenService(key []byte, ttl time.Duration) (*TokenService, error) {
	if len(key) == 0 {
		return nil, errors.New("token service: empty signing key")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token service: ttl must be positive, got %s", ttl)
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &TokenService{key: k, ttl: ttl, now: time.Now}, nil
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

func (s *TokenService) Generate(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidInput)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.key)
}

// Validate reports whether token is correctly signed, unexpired and issued
// for expectedSubject. It never returns an error.
func (s *TokenService) Validate(token, expectedSubject string) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}
	return expectedSubject != "" && claims.Subject == expectedSubject
}

// ExtractSubject verifies token and returns its subject.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// parse checks the signature before any claim is read. Every failure is
// reported as ErrTokenInvalid.
func (s *TokenService) parse(tokenStr string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
