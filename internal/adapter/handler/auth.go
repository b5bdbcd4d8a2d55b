package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/errors"
	dto "github.com/johnquangdev/meeting-action-board/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/auth"
)

// Auth handles the Google account connection
type Auth struct {
	oauthService *auth.OAuthService
	logger       *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(oauthService *auth.OAuthService, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{
		oauthService: oauthService,
		logger:       logger,
	}
}

// GoogleLogin redirects to the Google consent page. With redirect=false the URL is returned instead.
// GET /v1/auth/google/login
func (h *Auth) GoogleLogin(c echo.Context) error {
	authURL, err := h.oauthService.LoginURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if c.QueryParam("redirect") == "false" {
		return HandleSuccess(h.logger, c, &dto.LoginResponse{URL: authURL.URL, State: authURL.State})
	}
	return c.Redirect(http.StatusTemporaryRedirect, authURL.URL)
}

// GoogleCallback handles the OAuth callback from Google
// GET /v1/auth/google/callback
func (h *Auth) GoogleCallback(c echo.Context) error {
	if reason := c.QueryParam("error"); reason != "" {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", fmt.Errorf("consent denied: %s", reason)))
	}

	var req dto.CallbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	conn, err := h.oauthService.HandleCallback(c.Request().Context(), req.Code, req.State)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, toStatusResponse(true, conn))
}

// Status reports whether a Google account is connected
// GET /v1/auth/status
func (h *Auth) Status(c echo.Context) error {
	if h.oauthService == nil {
		return HandleSuccess(h.logger, c, &dto.StatusResponse{})
	}
	conn, err := h.oauthService.Status(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, toStatusResponse(true, conn))
}

// Logout forgets the connected account
// POST /v1/auth/logout
func (h *Auth) Logout(c echo.Context) error {
	if err := h.oauthService.Disconnect(c.Request().Context()); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, toStatusResponse(true, &auth.Connection{}))
}

func toStatusResponse(enabled bool, conn *auth.Connection) *dto.StatusResponse {
	resp := &dto.StatusResponse{
		Enabled:   enabled,
		Connected: conn.Connected,
		Name:      conn.Name,
		Email:     conn.Email,
	}
	if conn.Connected && !conn.Expiry.IsZero() {
		expiry := conn.Expiry
		resp.Expiry = &expiry
	}
	return resp
}
