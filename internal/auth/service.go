package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense-api/db"
	"expense-api/internal/apperr"
	"expense-api/internal/log"
	"expense-api/models"

	"golang.org/x/crypto/bcrypt"
)

const (
	MsgNoActiveAccount = "No active account found with the given credentials"
	MsgTokenNotValid   = "Token is invalid or expired"
	CodeTokenNotValid  = "token_not_valid"
	MsgFieldRequired   = "This field is required."
)

// TokenNotValid is the failure for any unusable refresh token
func TokenNotValid() *apperr.Error {
	return &apperr.Error{Kind: apperr.KindAuthentication, Detail: MsgTokenNotValid, Code: CodeTokenNotValid}
}

type AuthService struct {
	Users  db.UserRepository
	Tokens db.TokenRepository
	Issuer *TokenIssuer
	logger *log.Logger
}

func NewAuthService(users db.UserRepository, tokens db.TokenRepository, issuer *TokenIssuer, logger *log.Logger) *AuthService {
	return &AuthService{
		Users:  users,
		Tokens: tokens,
		Issuer: issuer,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// Login checks credentials and issues a fresh token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	fields := apperr.FieldErrors{}
	if username == "" {
		fields.Add("username", MsgFieldRequired)
	}
	if password == "" {
		fields.Add("password", MsgFieldRequired)
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.logger.ForContext(ctx).InfoContext(ctx, "Login failed", log.FieldOperation, log.OpLogin, "reason", "unknown user")
		return nil, apperr.Unauthenticated(MsgNoActiveAccount)
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("error finding user: %w", err))
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.ForContext(ctx).InfoContext(ctx, "Login failed", log.FieldOperation, log.OpLogin, log.FieldUserID, user.ID, "reason", "bad password")
		return nil, apperr.Unauthenticated(MsgNoActiveAccount)
	}

	pair, err := s.Issuer.IssuePair(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger.ForContext(ctx).InfoContext(ctx, "User logged in", log.FieldOperation, log.OpLogin, log.FieldUserID, user.ID)
	return pair, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	if strings.TrimSpace(refresh) == "" {
		return "", apperr.Field("refresh", MsgFieldRequired)
	}

	claims, err := s.verifyRefresh(ctx, refresh)
	if err != nil {
		return "", err
	}

	if _, err := s.Users.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", TokenNotValid()
		}
		return "", apperr.Internal(fmt.Errorf("error finding user: %w", err))
	}

	access, err := s.Issuer.IssueAccess(claims.UserID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	s.logger.ForContext(ctx).DebugContext(ctx, "Access token refreshed", log.FieldOperation, log.OpRefresh, log.FieldUserID, claims.UserID)
	return access, nil
}

// Logout revokes a refresh token belonging to user
func (s *AuthService) Logout(ctx context.Context, user *models.User, refresh string) error {
	if strings.TrimSpace(refresh) == "" {
		return apperr.Field("refresh", MsgFieldRequired)
	}

	claims, err := s.verifyRefresh(ctx, refresh)
	if err != nil {
		return err
	}
	if claims.UserID != user.ID {
		return TokenNotValid()
	}

	if err := s.Tokens.Revoke(ctx, claims.Id, user.ID, time.Unix(claims.ExpiresAt, 0)); err != nil {
		return apperr.Internal(err)
	}
	s.logger.ForContext(ctx).InfoContext(ctx, "Refresh token revoked", log.FieldOperation, log.OpLogout, log.FieldUserID, user.ID)
	return nil
}

func (s *AuthService) verifyRefresh(ctx context.Context, refresh string) (*Claims, error) {
	claims, err := s.Issuer.Parse(refresh, RefreshToken)
	if err != nil {
		return nil, TokenNotValid()
	}

	revoked, err := s.Tokens.IsRevoked(ctx, claims.Id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if revoked {
		return nil, TokenNotValid()
	}
	return claims, nil
}

// PurgeRevoked drops revocation entries for tokens that have expired anyway
func (s *AuthService) PurgeRevoked(ctx context.Context) (int64, error) {
	n, err := s.Tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	s.logger.ForContext(ctx).InfoContext(ctx, "Purged expired revoked tokens", "count", n)
	return n, nil
}
