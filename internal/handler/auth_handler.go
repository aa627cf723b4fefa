package handler

import (
	"errors"
	"net/http"

	"project-service/internal/domain"
	"project-service/internal/middleware"
	"project-service/internal/usecase"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *usecase.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register godoc
// @Summary  Register a user, creating the tenant on first use of its domain
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body RegisterRequest true "registration"
// @Success  200 {object} UserResponse
// @Failure  400 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse
// @Router   /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	prometheus.RegisterCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_registration")
		return err
	}

	user, err := h.auth.RegisterUser(c.Request().Context(), usecase.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		TenantName:   req.TenantName,
		TenantDomain: req.TenantDomain,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCredential) {
			prometheus.RecordAuthError("duplicate_credentials")
		}
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Token godoc
// @Summary  Exchange email and password for a bearer token
// @Tags     auth
// @Accept   x-www-form-urlencoded
// @Produce  json
// @Param    username   formData string true  "email"
// @Param    password   formData string true  "password"
// @Param    grant_type formData string false "password"
// @Success  200 {object} TokenResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	log := logger.FromEcho(c, h.log)
	prometheus.LoginCounter.Inc()

	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(err)
	}
	if req.GrantType != "" && req.GrantType != "password" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported_grant_type"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.AuthenticateUser(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrUnauthenticated) {
		prometheus.RecordAuthError("invalid_credentials")
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "incorrect email or password"})
	}
	if err != nil {
		return err
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return err
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me godoc
// @Summary  Current user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} UserResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
