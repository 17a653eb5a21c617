package web

import (
	"net/http"

	"expense-api/internal/log"
	"expense-api/middleware"

	"github.com/gorilla/mux"
)

// SetupRoutes builds the API router. Every route lives under the configured
// API prefix; /healthz stays at the root.
func (h *WebHandler) SetupRoutes(logger *log.Logger) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")

	api := r
	if h.config.APIPrefix != "" {
		api = r.PathPrefix(h.config.APIPrefix).Subrouter()
	}
	authed := h.middleware.AuthMiddleware

	// Accounts and tokens
	api.HandleFunc("/register/", h.userHandlers.RegisterHandler).Methods("POST")
	api.HandleFunc("/login/", h.authHandlers.LoginHandler).Methods("POST")
	api.HandleFunc("/token/refresh/", h.authHandlers.RefreshHandler).Methods("POST")
	api.HandleFunc("/logout/", authed(h.authHandlers.LogoutHandler)).Methods("POST")

	// Expenses
	api.HandleFunc("/expenses/", authed(h.expenseHandlers.GetAllExpenses)).Methods("GET")
	api.HandleFunc("/expenses/", authed(h.expenseHandlers.CreateExpense)).Methods("POST")
	api.HandleFunc("/expenses/{id}/", authed(h.expenseHandlers.GetExpense)).Methods("GET")
	api.HandleFunc("/expenses/{id}/", authed(h.expenseHandlers.UpdateExpense)).Methods("PUT", "PATCH")
	api.HandleFunc("/expenses/{id}/", authed(h.expenseHandlers.DeleteExpense)).Methods("DELETE")

	// Categories
	api.HandleFunc("/categories/", authed(h.categoryHandlers.GetAllCategories)).Methods("GET")

	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = http.HandlerFunc(h.NotFound)
		router.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
	}

	var handler http.Handler = r
	handler = middleware.SetupCORS(h.config.CORSAllowedOrigin)(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)
	return handler
}
