// ABOUTME: OAuth2 client-credentials token issuing and validation for the mock service
// ABOUTME: HS256 signed JWTs with uuid jti; client secret compared via bcrypt

package mockticket

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

// Token errors
var (
	ErrInvalidClient = errors.New("invalid client credentials")
	ErrInvalidToken  = errors.New("invalid token")
)

// TokenService issues and validates bearer tokens for the mock ticket API.
// Only the bcrypt hash of the client secret is kept in memory.
type TokenService struct {
	clientID   string
	secretHash []byte
	signingKey []byte
}

// NewTokenService creates a token service for a single registered client.
func NewTokenService(clientID, clientSecret string, signingKey []byte) (*TokenService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing client secret: %w", err)
	}
	return &TokenService{
		clientID:   clientID,
		secretHash: hash,
		signingKey: signingKey,
	}, nil
}

// Issue validates the client credentials and returns a signed access token
// plus its lifetime in seconds.
func (s *TokenService) Issue(clientID, clientSecret string) (token string, expiresIn int, err error) {
	if clientID != s.clientID {
		return "", 0, ErrInvalidClient
	}
	if bcrypt.CompareHashAndPassword(s.secretHash, []byte(clientSecret)) != nil {
		return "", 0, ErrInvalidClient
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": clientID,
		"jti": uuid.New().String(),
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", 0, fmt.Errorf("signing token: %w", err)
	}
	return signed, int(tokenTTL.Seconds()), nil
}

// Validate checks a bearer token's signature and expiry.
func (s *TokenService) Validate(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
