package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/middleware"
	"github.com/Aanshikesh/PennyPilot/internal/models"
)

// DashboardQuerier defines the read operations used by DashboardHandler.
type DashboardQuerier interface {
	GetDashboard(ctx context.Context, q cqrs.GetDashboardQuery) (*models.DashboardView, error)
}

type DashboardHandler struct {
	queries DashboardQuerier
}

func NewDashboardHandler(queries DashboardQuerier) *DashboardHandler {
	return &DashboardHandler{queries: queries}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	view, err := h.queries.GetDashboard(c.Request.Context(), cqrs.GetDashboardQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, view)
}
