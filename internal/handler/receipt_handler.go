package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aanshikesh/PennyPilot/internal/middleware"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/receipt"
)

// maxReceiptBytes caps the uploaded image size at 8 MiB.
const maxReceiptBytes = 8 << 20

type ReceiptHandler struct {
	scanner receipt.Scanner
}

func NewReceiptHandler(scanner receipt.Scanner) *ReceiptHandler {
	return &ReceiptHandler{scanner: scanner}
}

// ScanReceipt accepts a multipart upload under the "receipt" field and
// returns the extracted fields as a pre-filled transaction suggestion.
// Nothing is persisted; the client reviews the fields and submits a normal
// transaction create.
func (h *ReceiptHandler) ScanReceipt(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "A receipt image is required")
		return
	}
	defer file.Close()

	if header.Size > maxReceiptBytes {
		middleware.RespondWithError(c, http.StatusRequestEntityTooLarge, "Receipt image is too large")
		return
	}

	imageData, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Failed to read receipt image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	fields, err := h.scanner.Scan(c.Request.Context(), imageData, mimeType)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrExtractionFailed):
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Could not extract transaction details from the receipt")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to scan receipt")
		}
		return
	}

	c.JSON(http.StatusOK, fields)
}
