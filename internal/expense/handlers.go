package expense

import (
	"encoding/json"
	"net/http"
	"strconv"

	"expense-api/internal/apperr"
	"expense-api/internal/auth"
	"expense-api/internal/respond"
	"expense-api/models"

	"github.com/gorilla/mux"
)

type ExpenseHandlers struct {
	Service *ExpenseService
}

func NewExpenseHandlers(service *ExpenseService) *ExpenseHandlers {
	return &ExpenseHandlers{Service: service}
}

func (h *ExpenseHandlers) GetAllExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	expenses, err := h.Service.List(r.Context(), user, query.Get("category"), query.Get("month"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, expenses)
}

func (h *ExpenseHandlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	expense, err := h.Service.Create(r.Context(), user, in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, expense)
}

func (h *ExpenseHandlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	expense, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, expense)
}

// UpdateExpense serves PUT as a full replace and PATCH as a partial update
func (h *ExpenseHandlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	partial := r.Method == http.MethodPatch
	expense, err := h.Service.Update(r.Context(), user, id, in, partial)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, expense)
}

func (h *ExpenseHandlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusNoContent, nil)
}

func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthenticated("Authentication credentials were not provided."))
	}
	return user, ok
}

// expenseID reads the {id} path variable. Anything that is not a positive
// integer cannot name a record.
func expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, apperr.NotFound())
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (ExpenseInput, bool) {
	var raw map[string]json.RawMessage
	if err := respond.Decode(r, &raw); err != nil {
		respond.Error(w, r, err)
		return ExpenseInput{}, false
	}
	return DecodeExpenseInput(raw), true
}
