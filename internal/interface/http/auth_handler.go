package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-agent/internal/domain/auth"
)

// AuthHandler exposes account and token endpoints.
type AuthHandler struct {
	svc               auth.Service
	postLoginRedirect string
	logger            *slog.Logger
}

// NewAuthHandler constructs the auth transport.
func NewAuthHandler(svc auth.Service, cfg auth.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:               svc,
		postLoginRedirect: cfg.Google.PostLoginRedirectURL,
		logger:            logger.With("component", "http.auth"),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "auth_error"))
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "auth_error"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, fromDomainError(err, "auth_error"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	user, err := h.svc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, fromDomainError(err, "auth_error"))
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	if err := h.svc.Logout(c.Request.Context(), claims.UserID); err != nil {
		abortWithError(c, fromDomainError(err, "auth_error"))
		return
	}
	c.Status(http.StatusNoContent)
}

// GoogleLogin redirects to the Google consent screen with a PKCE challenge.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, verifier, challenge, err := auth.NewOAuthState()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_error", "failed to create oauth state", err))
		return
	}
	target, err := h.svc.GoogleAuthURL(c.Request.Context(), state, challenge)
	if err != nil {
		abortWithError(c, fromDomainError(err, "auth_error"))
		return
	}
	setOAuthStateCookie(c, state, verifier)
	c.Redirect(http.StatusFound, target)
}

// GoogleCallback completes sign-in. With a post-login redirect configured the
// tokens travel in the URL fragment, otherwise they are returned as JSON.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	stored, ok := readOAuthStateCookie(c)
	clearOAuthStateCookie(c)
	if !ok || stored.State != c.Query("state") {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "oauth state mismatch", nil))
		return
	}
	resp, err := h.svc.GoogleCallback(c.Request.Context(), c.Query("code"), stored.CodeVerifier)
	if err != nil {
		abortWithError(c, fromDomainError(err, "auth_error"))
		return
	}
	if h.postLoginRedirect == "" {
		c.JSON(http.StatusOK, resp)
		return
	}
	fragment := url.Values{}
	fragment.Set("token", resp.Token)
	fragment.Set("refreshToken", resp.RefreshToken)
	c.Redirect(http.StatusFound, h.postLoginRedirect+"#"+fragment.Encode())
}
