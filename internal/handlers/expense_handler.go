package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/middleware"
	"fitness-backend/internal/models"
	"fitness-backend/internal/pagination"
	"fitness-backend/internal/services"
	"fitness-backend/pkg/utils"
)

type ExpenseHandler struct {
	Service *services.ExpenseService
}

func NewExpenseHandler(s *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: s}
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())
	userID, _ := strconv.Atoi(r.URL.Query().Get("u_id"))
	orderID, _ := strconv.Atoi(r.URL.Query().Get("order_id"))
	status := r.URL.Query().Get("status")

	page, err := h.Service.List(r.Context(), viewer, userID, orderID, status, pagination.Parse(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	expense, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Review(w http.ResponseWriter, r *http.Request) {
	reviewer := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.ExpenseReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}
	req.ID = id

	expense, err := h.Service.Review(r.Context(), reviewer, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, expense)
}
