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

type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// Profile returns the caller's own record.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())
	utils.JSON(w, http.StatusOK, caller)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	user, err := h.Service.UpdateProfile(r.Context(), caller, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	roles := r.URL.Query().Get("roles")

	page, err := h.Service.List(r.Context(), keyword, roles, pagination.Parse(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	user, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	user, err := h.Service.Update(r.Context(), caller, id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// Subscribe records one accepted subscribe-message dialog.
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	if err := h.Service.AddSubscribeQuota(r.Context(), caller); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, nil)
}
