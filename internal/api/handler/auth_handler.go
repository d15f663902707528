package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notehub/notehub-api/internal/core/ports"
)

// refreshCookieName is the transport for the refresh token. The cookie
// lifetime always equals the token's own expiry.
const refreshCookieName = "refreshToken"

type AuthHandler struct {
	auth ports.AuthService
	// secureCookies marks the refresh cookie Secure so browsers only send
	// it over TLS. Off in development, where the API serves plain HTTP.
	secureCookies bool
}

func NewAuthHandler(auth ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: secureCookies}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type renewRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// Register creates a new user account. No session is started: callers log
// in explicitly afterwards.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Code:    "201",
		Success: true,
		Message: "welcome on board " + user.Username,
		User:    user.Public(),
	})
}

// Login authenticates a user and returns an access/refresh token pair. The
// refresh token is additionally set as an HTTP-only SameSite cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie(session.RefreshToken, session.RefreshExpiresAt))

	return c.JSON(http.StatusOK, authResponse{
		Code:         "200",
		Success:      true,
		Message:      "good to see you, " + session.User.Username,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         session.User.Public(),
	})
}

// Renew exchanges the refresh-token cookie for a fresh access token. No
// refresh token is reissued.
//
// @Summary      Renew access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      renewRequest  true  "Token subject"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Failure      403   {object}  authResponse
// @Router       /auth/renew [post]
func (h *AuthHandler) Renew(c echo.Context) error {
	var req renewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var refreshToken string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	renewed, err := h.auth.Renew(c.Request().Context(), req.UserID, refreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Code:        "200",
		Success:     true,
		Message:     "token renewed",
		AccessToken: renewed.AccessToken,
	})
}

// UpdateProfile changes the authenticated user's username and email.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "New profile fields"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Router       /users/me [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), userID, req.Username, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Code:    "200",
		Success: true,
		Message: "updated " + user.Username + "'s profile",
		User:    user.Public(),
	})
}

func (h *AuthHandler) refreshCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
}
