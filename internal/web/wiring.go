package web

import (
	"expense-api/db"
	"expense-api/internal/auth"
	"expense-api/internal/category"
	"expense-api/internal/config"
	"expense-api/internal/events"
	"expense-api/internal/expense"
	"expense-api/internal/log"
	"expense-api/internal/user"
	"expense-api/middleware"
)

// NewAPI wires repositories, services and handlers over one database
func NewAPI(cfg *config.Config, factory *db.RepositoryFactory, publisher events.Publisher, logger *log.Logger) (*WebHandler, *auth.AuthService) {
	userRepo := factory.NewUserRepository()
	categoryRepo := factory.NewCategoryRepository()
	expenseRepo := factory.NewExpenseRepository()
	tokenRepo := factory.NewTokenRepository()

	issuer := auth.NewTokenIssuer(cfg)
	authService := auth.NewAuthService(userRepo, tokenRepo, issuer, logger)
	userService := user.NewUserService(userRepo, logger)
	categoryService := category.NewCategoryService(categoryRepo, logger)
	expenseService := expense.NewExpenseService(expenseRepo, categoryRepo, publisher, logger)

	handler := NewWebHandler(
		auth.NewAuthHandlers(authService),
		user.NewUserHandlers(userService),
		category.NewCategoryHandlers(categoryService),
		expense.NewExpenseHandlers(expenseService),
		middleware.NewMiddleware(issuer, userRepo),
		factory.SQLiteDB,
		cfg,
	)
	return handler, authService
}
