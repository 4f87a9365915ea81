package handlers

import (
	"net/http"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/storage"
	"fitness-backend/pkg/utils"
)

// 10 MiB per attachment
const maxUploadSize = 10 << 20

type UploadHandler struct {
	Uploader *storage.Uploader
}

func NewUploadHandler(u *storage.Uploader) *UploadHandler {
	return &UploadHandler{Uploader: u}
}

// allowed upload prefixes, keyed by the "kind" form field
var uploadPrefixes = map[string]string{
	"cover":    "covers",
	"receipt":  "receipts",
	"contract": "contracts",
	"avatar":   "avatars",
}

// Upload stores a multipart attachment and returns its public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Uploader == nil {
		utils.Error(w, apperrors.Conflict("object storage is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, apperrors.Invalid("attachment too large or malformed"))
		return
	}

	prefix, ok := uploadPrefixes[r.FormValue("kind")]
	if !ok {
		utils.Error(w, apperrors.Invalid("kind must be one of cover/receipt/contract/avatar"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, apperrors.Invalid("file field is required"))
		return
	}
	defer file.Close()

	url, err := h.Uploader.Upload(r.Context(), prefix, header.Filename, file)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
