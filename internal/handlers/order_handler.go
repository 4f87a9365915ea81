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

type OrderHandler struct {
	Service *services.OrderService
}

func NewOrderHandler(s *services.OrderService) *OrderHandler {
	return &OrderHandler{Service: s}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())
	userID, _ := strconv.Atoi(r.URL.Query().Get("u_id"))
	status := r.URL.Query().Get("status")

	page, err := h.Service.List(r.Context(), viewer, userID, status, pagination.Parse(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	order, err := h.Service.Get(r.Context(), viewer, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())

	var req models.OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	order, err := h.Service.Create(r.Context(), actor, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.OrderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}
	req.ID = id

	order, err := h.Service.Update(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

// Comment appends a staff note to the order.
func (h *OrderHandler) Comment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.OrderCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	order, err := h.Service.Comment(r.Context(), actor, id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

// Receipt streams the order's PDF receipt.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	pdf, err := h.Service.Receipt(r.Context(), viewer, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="receipt.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
