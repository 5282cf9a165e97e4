package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/api/metrics"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// CookieOptions controls the session cookies set on login.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  Response
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login authenticates a user, returns both tokens and sets them as cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Response{data=loginResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()

	h.setSession(c, pair)
	return respond(c, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// Refresh rotates the token pair. The refresh token is taken from the body
// or, failing that, from the refresh cookie.
//
// @Summary      Refresh session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token"
// @Success      200   {object}  Response{data=loginResponse}
// @Failure      401   {object}  ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if c.Request().ContentLength > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	user, pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	h.setSession(c, pair)
	return respond(c, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

// Logout revokes the stored refresh token and clears both cookies.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}

	h.clearSession(c)
	return respond(c, http.StatusOK, empty, "User logged out successfully")
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// ForgotPassword sends a password-reset link to the account's address.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  Response
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Token sent to email!")
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  Response
// @Failure      400    {object}  ErrorResponse
// @Router       /auth/reset-password/{token} [patch]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Password reset successfully. Please log in.")
}

func (h *AuthHandler) setSession(c echo.Context, pair ports.TokenPair) {
	c.SetCookie(h.cookie(accessCookie, pair.AccessToken, h.cookies.AccessTTL))
	c.SetCookie(h.cookie(refreshCookie, pair.RefreshToken, h.cookies.RefreshTTL))
}

func (h *AuthHandler) clearSession(c echo.Context) {
	for _, name := range []string{accessCookie, refreshCookie} {
		cookie := h.cookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookies.Secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}
