package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webpv/webpv-backend/internal/auth"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(a *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type loginReq struct {
	ID         string `json:"id"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"` // accepted for client compatibility, not acted on yet
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type userPart struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
type loginResp struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int      `json:"expiresIn"`
	User         userPart `json:"user"`
}
type refreshResp struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// Login: verify credentials and return a token pair.  Validation failures
// return field-level messages; every authentication failure the account
// owner should not learn details about collapses into INVALID_CREDENTIALS.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_ERROR", "message": "invalid body"})
	}
	req.ID = strings.TrimSpace(req.ID)

	fields := echo.Map{}
	if n := len(req.ID); n < 6 || n > 10 {
		fields["id"] = "id must be 6 to 10 characters"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_ERROR", "message": "invalid login request", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, req.ID, req.Password)
	if err != nil {
		return authError(c, err)
	}

	pair, err := h.Auth.IssueTokens(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "INTERNAL_ERROR", "message": "issue tokens failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Token:        pair.AccessToken,
		RefreshToken: pair.Refresh,
		ExpiresIn:    pair.ExpiresIn,
		User:         userPart{ID: u.ID, Name: u.Name, Role: u.Role},
	})
}

// Refresh: validate a refresh token and return a new access token WITHOUT
// rotating the refresh token.  The same refresh token keeps working until
// it expires or is revoked via logout.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_ERROR", "message": "refreshToken required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, expiresIn, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(http.StatusOK, refreshResp{Token: access.Token, ExpiresIn: expiresIn})
}

// Logout: validate and revoke the presented refresh token.  The access
// token is short-lived and simply ages out.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_ERROR", "message": "refreshToken required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.RevokeRefresh(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return authError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me: simple protected endpoint returning the caller's token claims.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
		"route":   c.Get("route"),
	})
}

// authError maps auth service failures onto transport responses.  The
// bodies stay deliberately vague about whether an account exists.
func authError(c echo.Context, err error) error {
	var rl *auth.RateLimitedError
	switch {
	case errors.As(err, &rl):
		c.Response().Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error":      "RATE_LIMIT_EXCEEDED",
			"message":    "account temporarily locked, try again later",
			"retryAfter": rl.RetryAfter,
		})
	case errors.Is(err, auth.ErrAccountBlocked):
		// Covers the inactive case too; the message stays generic.
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":   "ACCOUNT_BLOCKED",
			"message": "account unavailable, contact your administrator",
		})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":   "INVALID_CREDENTIALS",
			"message": "invalid credentials",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "INTERNAL_ERROR",
			"message": "unexpected error",
		})
	}
}
