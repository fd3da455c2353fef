package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/middleware"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/utils"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	UpdateTransaction(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error)
	ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

type CreateTransactionRequest struct {
	AccountNumber     string  `json:"accountNumber" validate:"required"`
	Amount            float64 `json:"amount" validate:"gte=0"`
	Type              string  `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Date              string  `json:"date"`
	Description       string  `json:"description" validate:"max=500"`
	Category          string  `json:"category" validate:"max=100"`
	IsRecurring       bool    `json:"isRecurring"`
	RecurringInterval string  `json:"recurringInterval" validate:"required_if=IsRecurring true,omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

type UpdateTransactionRequest struct {
	Amount            *float64 `json:"amount" validate:"omitempty,gte=0"`
	Type              *string  `json:"type" validate:"omitempty,oneof=INCOME EXPENSE"`
	Date              *string  `json:"date"`
	Description       *string  `json:"description" validate:"omitempty,max=500"`
	Category          *string  `json:"category" validate:"omitempty,max=100"`
	IsRecurring       *bool    `json:"isRecurring"`
	RecurringInterval *string  `json:"recurringInterval" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

type ListTransactionsResponse struct {
	Transactions []any `json:"transactions"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			return
		}
		date = parsed
	}

	transaction, err := h.commands.CreateTransaction(cqrs.CreateTransactionCommand{
		UserID:            userID,
		AccountNumber:     req.AccountNumber,
		Amount:            req.Amount,
		Type:              models.TransactionType(req.Type),
		Date:              date,
		Description:       req.Description,
		Category:          req.Category,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: models.RecurringInterval(req.RecurringInterval),
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		}
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID := c.Param("transactionId")
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !utils.ValidateTransactionID(transactionID) {
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	cmd := cqrs.UpdateTransactionCommand{
		TransactionID: transactionID,
		UserID:        userID,
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		IsRecurring:   req.IsRecurring,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		cmd.Type = &t
	}
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			return
		}
		cmd.Date = &parsed
	}
	if req.RecurringInterval != nil {
		i := models.RecurringInterval(*req.RecurringInterval)
		cmd.RecurringInterval = &i
	}

	transaction, err := h.commands.UpdateTransaction(cmd)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, models.ErrAccountNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction")
		}
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID := c.Param("transactionId")
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !utils.ValidateTransactionID(transactionID) {
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return
	}

	view, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get transaction")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	views, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		UserID:        userID,
		AccountNumber: c.Query("accountNumber"),
		Type:          c.Query("type"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	transactionsAny := make([]any, len(views))
	for i, v := range views {
		transactionsAny[i] = v
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: transactionsAny})
}
