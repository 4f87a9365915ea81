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

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())
	pool := r.URL.Query().Get("pool")
	ownerID, _ := strconv.Atoi(r.URL.Query().Get("u_id"))
	keyword := r.URL.Query().Get("keyword")

	page, err := h.Service.List(r.Context(), viewer, pool, ownerID, keyword, pagination.Parse(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	customer, err := h.Service.Get(r.Context(), viewer, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req models.CustomerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	customer, err := h.Service.Create(r.Context(), caller, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

// CreateBatch imports a list of leads, all private to the caller.
func (h *CustomerHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var reqs []*models.CustomerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	customers, err := h.Service.CreateBatch(r.Context(), caller, reqs)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, customers)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.CustomerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}
	req.ID = id

	customer, err := h.Service.Update(r.Context(), caller, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

// Allot claims public-sea leads for a staff member.
func (h *CustomerHandler) Allot(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req models.CustomerAllotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	customers, err := h.Service.Allot(r.Context(), caller, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

// Back returns private leads to the public sea.
func (h *CustomerHandler) Back(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req models.CustomerBackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	customers, err := h.Service.Back(r.Context(), caller, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

// Del soft-deletes leads.
func (h *CustomerHandler) Del(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req models.CustomerDelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	if err := h.Service.Del(r.Context(), caller, &req); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, nil)
}

func (h *CustomerHandler) Journals(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())
	customerID, _ := strconv.Atoi(mux.Vars(r)["id"])

	page, err := h.Service.Journals(r.Context(), viewer, customerID, pagination.Parse(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *CustomerHandler) AddJournal(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req models.JournalCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	journal, err := h.Service.AddJournal(r.Context(), caller, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, journal)
}

func (h *CustomerHandler) UpdateJournal(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.JournalUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}
	req.ID = id

	journal, err := h.Service.UpdateJournal(r.Context(), caller, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, journal)
}
