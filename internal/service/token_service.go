package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4" // Import JWT library
	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrTokenGeneration = errors.New("failed to generate authentication token")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrEmptySecret     = errors.New("JWT secret cannot be empty")
)

// TokenService issues and checks the bearer tokens that guard the HTTP API.
// Tokens name a client (a script, an editor instance), not a user.
type TokenService interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (*TokenClaims, error)
}

// TokenClaims defines the structure of the JWT payload.
type TokenClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// tokenService implements the TokenService interface.
type tokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(secret string, expiration time.Duration, issuer string) (TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if expiration <= 0 {
		expiration = time.Hour * 1 // Default to 1 hour if not set properly
	}
	return &tokenService{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

// IssueToken creates a signed HS256 token for subject.
func (s *tokenService) IssueToken(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: subject cannot be empty", ErrTokenGeneration)
	}
	now := s.now()
	claims := &TokenClaims{
		Scope: "plans",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", ErrTokenGeneration
	}
	return signedToken, nil
}

// ParseToken verifies the signature, expiry and issuer of a token.
func (s *tokenService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what you expect: HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
