package category

import (
	"net/http"

	"expense-api/internal/respond"
)

type CategoryHandlers struct {
	Service *CategoryService
}

func NewCategoryHandlers(service *CategoryService) *CategoryHandlers {
	return &CategoryHandlers{Service: service}
}

func (h *CategoryHandlers) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, categories)
}
