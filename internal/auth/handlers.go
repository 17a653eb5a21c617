package auth

import (
	"net/http"

	"expense-api/internal/apperr"
	"expense-api/internal/respond"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type AuthHandlers struct {
	Service *AuthService
}

func NewAuthHandlers(service *AuthService) *AuthHandlers {
	return &AuthHandlers{Service: service}
}

func (h *AuthHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := respond.Decode(r, &creds); err != nil {
		respond.Error(w, r, err)
		return
	}

	pair, err := h.Service.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandlers) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	access, err := h.Service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]string{"access": access})
}

// LogoutHandler requires an authenticated user on the request context
func (h *AuthHandlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthenticated("Authentication credentials were not provided."))
		return
	}

	var req refreshRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.Service.Logout(r.Context(), user, req.Refresh); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusResetContent, nil)
}
