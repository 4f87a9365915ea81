package handlers

import (
	"encoding/json"
	"net/http"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/middleware"
	"fitness-backend/internal/services"
	"fitness-backend/pkg/utils"
)

type QRCodeHandler struct {
	Service *services.QRCodeService
}

func NewQRCodeHandler(s *services.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{Service: s}
}

type issueRequest struct {
	Scene string `json:"scene"`
	ID    int    `json:"id"`
}

// Issue renders a QR image for the caller.
func (h *QRCodeHandler) Issue(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}

	result, err := h.Service.Issue(r.Context(), caller, req.Scene, req.ID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

type redeemRequest struct {
	Content string `json:"content"`
}

// Redeem consumes a scanned QR payload.
func (h *QRCodeHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	operator := middleware.UserFromContext(r.Context())

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Invalid("invalid request body"))
		return
	}
	if req.Content == "" {
		utils.Error(w, apperrors.Invalid("content is required"))
		return
	}

	result, err := h.Service.Redeem(r.Context(), operator, req.Content)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
