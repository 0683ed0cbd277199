package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookinghub/user-service/internal/api/metrics"
	"github.com/bookinghub/user-service/internal/api/middleware"
	"github.com/bookinghub/user-service/internal/core/ports"
)

// UserHandler handles profile retrieval and the admin user operations.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the caller's profile and silently rotates the token pair.
//
// The presented pair is passed straight to the service, which performs the
// resolution itself; this route does not sit behind the Session middleware.
//
// @Summary      Get my profile
// @Tags         users
// @Produce      json
// @Param        Authorization    header    string  true  "Bearer access token"
// @Param        X-Refresh-Token  header    string  true  "Refresh token"
// @Success      200  {object}  myProfileResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	pair, err := middleware.PairFromRequest(c)
	if err != nil {
		return err
	}

	result, err := h.users.Me(c.Request().Context(), pair)
	if err != nil {
		return err
	}

	metrics.TokenPairsIssuedTotal.Inc()
	return c.JSON(http.StatusOK, myProfileResponse{
		Status:      http.StatusOK,
		Code:        "MY_INFO_200",
		Message:     "get my info success",
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
		Tokens:      tokenPairResponse{AccessToken: result.Tokens.AccessToken, RefreshToken: result.Tokens.RefreshToken},
		Data:        result.Profile,
	})
}

// List returns users matching the per-field substring filters.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        username  query  string  false  "Username substring"
// @Param        email     query  string  false  "Email substring"
// @Param        role      query  string  false  "Role substring"
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	profiles, err := h.users.List(c.Request().Context(), ports.ListUsersFilter{
		Username:    q.Username,
		Fullname:    q.Fullname,
		DateOfBirth: q.DateOfBirth,
		Email:       q.Email,
		PhoneNumber: q.PhoneNumber,
		Address:     q.Address,
		Role:        q.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{Users: profiles, Total: len(profiles)})
}

// Update applies a partial profile patch to a user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        username  path   string             true  "Username"
// @Param        body      body   updateUserRequest  true  "Fields to update"
// @Success      200  {object}  ports.Profile
// @Failure      404  {object}  api.ErrorResponse
// @Router       /users/{username} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.users.Update(c.Request().Context(), c.Param("username"), ports.UserUpdate{
		Fullname:    req.Fullname,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// Delete soft-deletes a user and returns the marked record.
//
// @Summary      Delete a user (soft)
// @Tags         users
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  ports.Profile
// @Failure      404  {object}  api.ErrorResponse
// @Router       /users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	profile, err := h.users.Delete(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
