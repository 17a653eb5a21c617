package auth

import (
	"errors"
	"fmt"
	"time"

	"expense-api/internal/config"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

type Claims struct {
	TokenType TokenType `json:"token_type"`
	UserID    int64     `json:"user_id"`
	jwt.StandardClaims
}

// TokenPair is the login response body
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// TokenIssuer signs and verifies HS256 access and refresh tokens
type TokenIssuer struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		key:        cfg.JwtKey,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

func (i *TokenIssuer) IssuePair(userID int64) (*TokenPair, error) {
	refresh, err := i.issue(userID, RefreshToken, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	access, err := i.issue(userID, AccessToken, i.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Refresh: refresh, Access: access}, nil
}

func (i *TokenIssuer) IssueAccess(userID int64) (string, error) {
	return i.issue(userID, AccessToken, i.accessTTL)
}

func (i *TokenIssuer) issue(userID int64, tokenType TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	claims := &Claims{
		TokenType: tokenType,
		UserID:    userID,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("error signing %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies tokenStr and requires it to be of the expected type.
// Every failure is reported as ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenStr string, expected TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected || claims.UserID == 0 || claims.Id == "" || claims.ExpiresAt == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
