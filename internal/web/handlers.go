package web

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"expense-api/internal/apperr"
	"expense-api/internal/auth"
	"expense-api/internal/category"
	"expense-api/internal/config"
	"expense-api/internal/expense"
	"expense-api/internal/respond"
	"expense-api/internal/user"
	"expense-api/middleware"
)

// WebHandler owns every HTTP handler group and the auth middleware in front of them
type WebHandler struct {
	authHandlers     *auth.AuthHandlers
	userHandlers     *user.UserHandlers
	categoryHandlers *category.CategoryHandlers
	expenseHandlers  *expense.ExpenseHandlers
	middleware       *middleware.Middleware
	db               *sql.DB
	config           *config.Config
}

func NewWebHandler(
	authHandlers *auth.AuthHandlers,
	userHandlers *user.UserHandlers,
	categoryHandlers *category.CategoryHandlers,
	expenseHandlers *expense.ExpenseHandlers,
	mw *middleware.Middleware,
	db *sql.DB,
	cfg *config.Config,
) *WebHandler {
	return &WebHandler{
		authHandlers:     authHandlers,
		userHandlers:     userHandlers,
		categoryHandlers: categoryHandlers,
		expenseHandlers:  expenseHandlers,
		middleware:       mw,
		db:               db,
		config:           cfg,
	}
}

// Healthz reports liveness and whether the database answers a ping
func (h *WebHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		respond.JSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, r, apperr.NotFound())
}

func (h *WebHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusMethodNotAllowed, map[string]string{
		"detail": "Method \"" + r.Method + "\" not allowed.",
	})
}
