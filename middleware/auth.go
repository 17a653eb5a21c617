package middleware

import (
	"errors"
	"net/http"
	"strings"

	"expense-api/db"
	"expense-api/internal/apperr"
	"expense-api/internal/auth"
	"expense-api/internal/respond"
)

const (
	MsgNoCredentials = "Authentication credentials were not provided."
	MsgBadToken      = "Given token not valid for any token type"
	MsgUserNotFound  = "User not found"
)

type Middleware struct {
	Issuer *auth.TokenIssuer
	Users  db.UserRepository
}

func NewMiddleware(issuer *auth.TokenIssuer, users db.UserRepository) *Middleware {
	return &Middleware{Issuer: issuer, Users: users}
}

// AuthMiddleware requires a bearer access token and puts its user on the
// request context.
func (m *Middleware) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respond.Error(w, r, apperr.Unauthenticated(MsgNoCredentials))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			respond.Error(w, r, apperr.Unauthenticated(MsgNoCredentials))
			return
		}

		claims, err := m.Issuer.Parse(strings.TrimSpace(parts[1]), auth.AccessToken)
		if err != nil {
			respond.Error(w, r, &apperr.Error{Kind: apperr.KindAuthentication, Detail: MsgBadToken, Code: auth.CodeTokenNotValid})
			return
		}

		user, err := m.Users.FindByID(r.Context(), claims.UserID)
		if errors.Is(err, db.ErrNotFound) {
			respond.Error(w, r, &apperr.Error{Kind: apperr.KindAuthentication, Detail: MsgUserNotFound, Code: "user_not_found"})
			return
		}
		if err != nil {
			respond.Error(w, r, apperr.Internal(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}
