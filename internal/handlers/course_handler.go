package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
	"fitness-backend/internal/pagination"
	"fitness-backend/internal/services"
	"fitness-backend/pkg/utils"
)

type CourseHandler struct {
	Service *services.CourseService
}

func NewCourseHandler(s *services.CourseService) *CourseHandler {
	return &CourseHandler{Service: s}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	page, err := h.Service.List(r.Context(), keyword, pagination.Parse(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	course, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, course)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CourseCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	course, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.CourseUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}
	req.ID = id

	course, err := h.Service.Update(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, course)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, nil)
}
