package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookinghub/user-service/internal/api/metrics"
	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/ports"
)

// LoginLimiter throttles login attempts per username (Redis in production).
type LoginLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
}

type AuthHandler struct {
	users   ports.UserService
	limiter LoginLimiter
	log     zerolog.Logger
}

func NewAuthHandler(users ports.UserService, limiter LoginLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, limiter: limiter, log: log}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Failure      500   {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		Fullname:    req.Fullname,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		if err == domain.ErrDuplicateUser {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Username: user.Username,
		Role:     string(user.Role),
		Status:   user.Status,
	})
}

// Login authenticates a user and returns an access+refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Failure      429   {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	allowed, err := h.limiter.Allow(ctx, req.Username)
	if err != nil {
		// Limiter outage must not lock everyone out.
		h.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
	} else if !allowed {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return domain.ErrTooManyAttempts
	}

	pair, user, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokenPairsIssuedTotal.Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Username: user.Username,
		Role:     string(user.Role),
		Tokens:   tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	})
}
