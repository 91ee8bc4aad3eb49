package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bankcore/cards-api/internal/core/ports"
)

// AuthHandler handles registration and token issuance.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type signUpRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Username string `json:"username" validate:"required,min=4"`
	Password string `json:"password" validate:"required,min=8"`
}

type signInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authStatusResponse mirrors the status payload returned by both auth routes.
type authStatusResponse struct {
	State     string    `json:"state"`
	Code      int       `json:"code"`
	Timestamp time.Time `json:"timestamp"`
	Token     string    `json:"token,omitempty"`
}

// SignUp handles PUT /auth/signUp.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      200   {object}  authStatusResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/signUp [put]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.SignUp(c.Request().Context(), req.FullName, req.Username, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authStatusResponse{
		State:     "user has been successfully registered",
		Code:      http.StatusOK,
		Timestamp: time.Now().UTC(),
	})
}

// SignIn handles POST /auth/signIn. Bad credentials yield 403.
//
// @Summary      Sign in and obtain a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  authStatusResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/signIn [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.service.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authStatusResponse{
		State:     "user has been authorized",
		Code:      http.StatusOK,
		Timestamp: time.Now().UTC(),
		Token:     token,
	})
}
