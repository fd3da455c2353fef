package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/middleware"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/query"
)

// UserCommander defines the write-side operations used by AuthHandler.
type UserCommander interface {
	CreateUser(cqrs.CreateUserCommand) (*models.User, error)
}

// AuthQuerier defines the credential and token operations used by AuthHandler.
type AuthQuerier interface {
	Login(cqrs.LoginCommand) (*query.AuthResult, error)
	RefreshToken(cqrs.RefreshTokenCommand) (*query.AuthResult, error)
}

type AuthHandler struct {
	commands UserCommander
	queries  AuthQuerier
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse omits the password hash.
type RegisterResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func NewAuthHandler(commands UserCommander, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.CreateUser(cqrs.CreateUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailTaken):
			middleware.RespondWithError(c, http.StatusConflict, "Email is already registered")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.queries.Login(cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Refresh reissues a token for the authenticated caller. It sits behind the
// auth middleware, so an expired token cannot be refreshed.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	result, err := h.queries.RefreshToken(cqrs.RefreshTokenCommand{UserID: userID})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to refresh token")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
