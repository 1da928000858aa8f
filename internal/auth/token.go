package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry or
	// type checks.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the authenticated user identity plus a token type
// discriminator so refresh tokens cannot be replayed as access tokens.
type Claims struct {
	UserID    int64  `json:"uid"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful credential exchange.
type TokenPair struct {
	Access  string
	Refresh string
}

// Issuer mints and verifies HS256 access/refresh token pairs.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair mints a fresh access/refresh pair for the given user.
func (i *Issuer) IssuePair(userID int64, username string) (TokenPair, error) {
	access, err := i.sign(userID, username, tokenTypeAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := i.sign(userID, username, tokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (i *Issuer) Refresh(refreshToken string) (string, error) {
	claims, err := i.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	access, err := i.sign(claims.UserID, claims.Username, tokenTypeAccess, i.accessTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}

// VerifyAccess validates an access token and returns its claims.
func (i *Issuer) VerifyAccess(token string) (*Claims, error) {
	return i.parse(token, tokenTypeAccess)
}

func (i *Issuer) sign(userID int64, username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(i.secret)
}

func (i *Issuer) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
