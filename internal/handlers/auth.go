package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/auth"
	"github.com/tasktracker/task-tracker-api/internal/constants"
	"github.com/tasktracker/task-tracker-api/internal/dto"
	apierrors "github.com/tasktracker/task-tracker-api/internal/errors"
	"github.com/tasktracker/task-tracker-api/internal/logging"
	"github.com/tasktracker/task-tracker-api/internal/middleware"
	"github.com/tasktracker/task-tracker-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	logger      logging.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	useJSONFieldNames()
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		FirstName       string `json:"firstName" binding:"required"`
		LastName        string `json:"lastName" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{User: dto.ToUserDTO(*user)})
}

// Login checks credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.ToUserDTO(*result.User),
	})
}

// CheckAuth returns the user named by the bearer token.
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	token, err := middleware.BearerToken(c)
	if err != nil {
		middleware.RespondTokenError(c, err)
		return
	}

	user, err := h.authService.CheckAuth(c.Request.Context(), token)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.Set(constants.ContextKeyUserID, user.ID)
	c.JSON(http.StatusOK, dto.UserResponse{User: dto.ToUserDTO(*user)})
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondValidationError(c, vErr)
	case errors.Is(err, services.ErrPasswordMismatch):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodePasswordMismatch, "Passwords do not match")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodePasswordTooShort,
			fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordTooLong):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at most %d bytes", constants.MaxPasswordLength))
	case errors.Is(err, services.ErrDuplicateEmail):
		apierrors.Conflict(c, "Email is already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, services.ErrAccountNotFound):
		apierrors.Unauthorized(c, "Account no longer exists")
	case errors.Is(err, auth.ErrTokenMissing),
		errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenInvalidSignature):
		middleware.RespondTokenError(c, err)
	default:
		h.logger.Error(c.Request.Context(), "auth request failed", "error", err)
		apierrors.InternalError(c, "")
	}
}
